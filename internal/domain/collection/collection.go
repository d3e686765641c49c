// Package collection tracks which cards a collector has pulled. Every
// function here is pure: state goes in, new state comes out, and the
// caller decides where it is persisted.
package collection

import (
	"sort"
	"time"

	"github.com/okian/gacha/internal/domain/model"
)

// State is one collector's progress.
type State struct {
	Collected []string  `json:"collected"` // sorted, unique card ids
	PullCount int       `json:"pullCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Has reports whether id was collected.
func (s State) Has(id string) bool {
	i := sort.SearchStrings(s.Collected, id)
	return i < len(s.Collected) && s.Collected[i] == id
}

// Set returns the collected ids as a set.
func (s State) Set() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Collected))
	for _, id := range s.Collected {
		set[id] = struct{}{}
	}
	return set
}

// Record adds a pull of cards to s. It returns the new state and the ids
// collected for the first time, in the order they appeared.
func Record(s State, cards []model.Card, at time.Time) (State, []string) {
	set := s.Set()
	newIDs := make([]string, 0, len(cards))
	for _, c := range cards {
		if _, ok := set[c.ID]; ok {
			continue
		}
		set[c.ID] = struct{}{}
		newIDs = append(newIDs, c.ID)
	}

	next := State{
		Collected: make([]string, 0, len(set)),
		PullCount: s.PullCount + 1,
		UpdatedAt: at,
	}
	for id := range set {
		next.Collected = append(next.Collected, id)
	}
	sort.Strings(next.Collected)
	return next, newIDs
}

// Tally counts cards available and collected within one bucket.
type Tally struct {
	Total     int `json:"total"`
	Collected int `json:"collected"`
}

// Stats summarizes a collection against a dataset.
type Stats struct {
	Total      int                      `json:"total"`
	Collected  int                      `json:"collected"`
	PullCount  int                      `json:"pullCount"`
	ByGrade    map[model.Grade]Tally    `json:"byGrade"`
	ByPosition map[model.Position]Tally `json:"byPosition"`
}

// Summarize counts owned cards per grade and position. Ids no longer in the
// dataset are ignored.
func Summarize(ds *model.Dataset, s State) Stats {
	st := Stats{
		PullCount:  s.PullCount,
		ByGrade:    make(map[model.Grade]Tally, len(model.Grades())),
		ByPosition: make(map[model.Position]Tally, model.PositionCount),
	}
	for _, g := range model.Grades() {
		st.ByGrade[g] = Tally{}
	}
	for _, p := range model.Positions() {
		st.ByPosition[p] = Tally{}
	}
	if ds == nil {
		return st
	}

	set := s.Set()
	for _, c := range ds.Players {
		_, owned := set[c.ID]
		st.Total++
		g, p := st.ByGrade[c.Grade], st.ByPosition[c.Position]
		g.Total++
		p.Total++
		if owned {
			st.Collected++
			g.Collected++
			p.Collected++
		}
		st.ByGrade[c.Grade], st.ByPosition[c.Position] = g, p
	}
	return st
}

// Owned returns the collected cards in dataset order.
func Owned(ds *model.Dataset, s State) []model.Card {
	if ds == nil {
		return nil
	}
	set := s.Set()
	out := make([]model.Card, 0, len(set))
	for _, c := range ds.Players {
		if _, ok := set[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}
