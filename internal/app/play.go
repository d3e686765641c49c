package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/okian/gacha/internal/domain/battle"
	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
	"github.com/okian/gacha/pkg/logger"
	"github.com/okian/gacha/pkg/metrics"
)

// DrawnCard is one slot of a pull as shown to the collector.
type DrawnCard struct {
	draw.Slot
	New bool `json:"new"`
}

// DrawResult is the outcome of one pull for one collector.
type DrawResult struct {
	Collector string      `json:"collector"`
	Cards     []DrawnCard `json:"cards"`
	NewIDs    []string    `json:"newIds"`
	Power     int         `json:"power"`
	PullCount int         `json:"pullCount"`
	Collected int         `json:"collected"`
}

// CollectionView is a collector's state with derived statistics.
type CollectionView struct {
	Collector string           `json:"collector"`
	State     collection.State `json:"state"`
	Stats     collection.Stats `json:"stats"`
}

// BattleResult pairs an outcome with the teams that produced it.
type BattleResult struct {
	Outcome battle.Outcome `json:"outcome"`
	TeamA   []model.Card   `json:"teamA"`
	TeamB   []model.Card   `json:"teamB"`
	PowerA  int            `json:"powerA"`
	PowerB  int            `json:"powerB"`
}

func (s *Service) lockCollector(collector string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(collector))
	m := &s.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

// Draw pulls one team for collector and records it in their collection.
// The pull is only returned once the updated collection has been saved.
func (s *Service) Draw(ctx context.Context, collector string) (DrawResult, error) {
	store, err := s.collectionStore()
	if err != nil {
		return DrawResult{}, err
	}
	snap, err := s.current()
	if err != nil {
		return DrawResult{}, err
	}

	unlock := s.lockCollector(collector)
	defer unlock()

	state, err := store.Load(ctx, collector)
	if err != nil {
		metrics.RecordErrorByComponent("service", "collection_load")
		return DrawResult{}, err
	}

	start := time.Now()
	pull, err := snap.engine.Pull()
	if err != nil {
		metrics.RecordErrorByComponent("draw", "empty_pool")
		return DrawResult{}, err
	}
	metrics.RecordDrawLatency(float64(time.Since(start).Microseconds()) / 1000)

	next, newIDs := collection.Record(state, pull.Team.Cards(), s.now())
	if err := store.Save(ctx, collector, next); err != nil {
		metrics.RecordErrorByComponent("service", "collection_save")
		s.log().Error(ctx, "failed to save collection",
			logger.String("collector", collector),
			logger.Error(err),
		)
		return DrawResult{}, err
	}

	fresh := make(map[string]struct{}, len(newIDs))
	for _, id := range newIDs {
		fresh[id] = struct{}{}
	}
	res := DrawResult{
		Collector: collector,
		Cards:     make([]DrawnCard, 0, model.PositionCount),
		NewIDs:    newIDs,
		Power:     battle.TeamPower(pull.Team.Cards()),
		PullCount: next.PullCount,
		Collected: len(next.Collected),
	}
	for _, slot := range pull.Slots {
		_, isNew := fresh[slot.Card.ID]
		res.Cards = append(res.Cards, DrawnCard{Slot: slot, New: isNew})
		metrics.RecordDraw(string(slot.Position), string(slot.Card.Grade))
		if slot.Fallback() {
			metrics.RecordGradeFallback(string(slot.Rolled), string(slot.Card.Grade))
		}
	}
	metrics.ObserveTeamPower(res.Power)

	s.log().Debug(ctx, "team drawn",
		logger.String("collector", collector),
		logger.Any("cards", pull.Team.IDs()),
		logger.Int("new", len(newIDs)),
		logger.Int("power", res.Power),
	)
	return res, nil
}

// Collection returns a collector's state and statistics. Unknown
// collectors have an empty collection.
func (s *Service) Collection(ctx context.Context, collector string) (CollectionView, error) {
	store, err := s.collectionStore()
	if err != nil {
		return CollectionView{}, err
	}
	snap, err := s.current()
	if err != nil {
		return CollectionView{}, err
	}
	state, err := store.Load(ctx, collector)
	if err != nil {
		return CollectionView{}, err
	}
	return CollectionView{
		Collector: collector,
		State:     state,
		Stats:     collection.Summarize(snap.ds, state),
	}, nil
}

// OwnedCards returns the dataset cards a collector holds.
func (s *Service) OwnedCards(ctx context.Context, collector string) ([]model.Card, error) {
	store, err := s.collectionStore()
	if err != nil {
		return nil, err
	}
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	state, err := store.Load(ctx, collector)
	if err != nil {
		return nil, err
	}
	return collection.Owned(snap.ds, state), nil
}

// ResetCollection forgets everything a collector has pulled.
func (s *Service) ResetCollection(ctx context.Context, collector string) error {
	store, err := s.collectionStore()
	if err != nil {
		return err
	}
	unlock := s.lockCollector(collector)
	defer unlock()
	if err := store.Reset(ctx, collector); err != nil {
		return err
	}
	s.log().Info(ctx, "collection reset", logger.String("collector", collector))
	return nil
}

// Challenges evaluates every challenge against a collector's cards.
func (s *Service) Challenges(ctx context.Context, collector string) ([]collection.Progress, error) {
	store, err := s.collectionStore()
	if err != nil {
		return nil, err
	}
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	state, err := store.Load(ctx, collector)
	if err != nil {
		return nil, err
	}
	return collection.Challenges(snap.ds, state), nil
}

// Battle plays team ids against a freshly drawn opponent. With no ids the
// challenger's team is drawn too. Given ids may come in any order but must
// cover every position exactly once.
func (s *Service) Battle(ctx context.Context, ids []string) (BattleResult, error) {
	s.mu.RLock()
	resolver, started := s.resolver, s.started
	s.mu.RUnlock()
	if !started {
		return BattleResult{}, ErrNotStarted
	}
	snap, err := s.current()
	if err != nil {
		return BattleResult{}, err
	}

	var teamA model.Team
	if len(ids) == 0 {
		if teamA, err = snap.engine.DrawTeam(); err != nil {
			return BattleResult{}, err
		}
	} else if teamA, err = snap.team(ids); err != nil {
		return BattleResult{}, err
	}

	teamB, err := snap.engine.DrawTeam()
	if err != nil {
		return BattleResult{}, err
	}

	outcome, err := resolver.ResolveTeams(teamA, teamB)
	if err != nil {
		return BattleResult{}, err
	}
	metrics.RecordBattle(string(outcome.Winner))

	s.log().Debug(ctx, "battle resolved",
		logger.String("battleId", outcome.ID),
		logger.String("winner", string(outcome.Winner)),
		logger.Int("scoreA", outcome.ScoreA),
		logger.Int("scoreB", outcome.ScoreB),
	)
	return BattleResult{
		Outcome: outcome,
		TeamA:   teamA.Cards(),
		TeamB:   teamB.Cards(),
		PowerA:  battle.TeamPower(teamA.Cards()),
		PowerB:  battle.TeamPower(teamB.Cards()),
	}, nil
}

// team arranges ids into slot order.
func (snap *snapshot) team(ids []string) (model.Team, error) {
	var team model.Team
	if len(ids) != model.PositionCount {
		return team, fmt.Errorf("%w: need %d cards, got %d", battle.ErrInvalidTeam, model.PositionCount, len(ids))
	}
	filled := make(map[model.Position]bool, model.PositionCount)
	for _, id := range ids {
		c, ok := snap.byID[id]
		if !ok {
			return team, fmt.Errorf("%w: %s", ErrUnknownCard, id)
		}
		if filled[c.Position] {
			return team, fmt.Errorf("%w: two cards for %s", battle.ErrInvalidTeam, c.Position)
		}
		filled[c.Position] = true
	}
	for i, pos := range model.Positions() {
		for _, id := range ids {
			if c := snap.byID[id]; c.Position == pos {
				team[i] = c
			}
		}
	}
	return team, nil
}
