package collection

import (
	"strings"

	"github.com/okian/gacha/internal/domain/model"
)

const (
	fakerPlayerID      = "faker"
	dynastyTarget      = 5
	legendaryTarget    = 5
	rosterTarget       = 10
	championTarget     = 10
	veteranTarget      = 15
	veteranAppearances = 5
)

// Progress is a challenge evaluated against one collection.
type Progress struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	Completed   bool   `json:"completed"`
}

// view is the owned side of a collection, indexed for the challenge rules.
type view struct {
	cards   []model.Card
	owned   []model.Card
	careers map[string]model.Career
}

type challenge struct {
	id, name, description string
	progress              func(v view) (current, total int)
}

var challenges = []challenge{
	{
		id: "faker-fan", name: "Faker Fan", description: "Collect any Faker card",
		progress: func(v view) (int, int) {
			for _, c := range v.owned {
				if c.PlayerID == fakerPlayerID {
					return 1, 1
				}
			}
			return 0, 1
		},
	},
	{
		id: "t1-dynasty", name: "T1 Dynasty", description: "Collect 5 cards of T1/SKT world champions",
		progress: func(v view) (int, int) {
			return v.countOwned(func(c model.Card) bool {
				career := v.careers[c.PlayerID]
				return career.Championships > 0 && playedForT1(career.Teams)
			}), dynastyTarget
		},
	},
	{
		id: "legendary-collector", name: "Legend Hunter", description: "Collect 5 LEGENDARY cards",
		progress: func(v view) (int, int) {
			return v.countOwned(func(c model.Card) bool { return c.Grade == model.GradeLegendary }), legendaryTarget
		},
	},
	{
		id: "full-roster", name: "Full Roster", description: "Collect at least 10 cards in every position",
		progress: func(v view) (int, int) {
			perPosition := make(map[model.Position]int, model.PositionCount)
			for _, c := range v.owned {
				perPosition[c.Position]++
			}
			least := rosterTarget
			for _, p := range model.Positions() {
				least = min(least, perPosition[p])
			}
			return least, rosterTarget
		},
	},
	{
		id: "worlds-winner", name: "World Champion", description: "Collect 10 cards of players who won Worlds",
		progress: func(v view) (int, int) {
			return v.countOwned(func(c model.Card) bool { return v.careers[c.PlayerID].Championships > 0 }), championTarget
		},
	},
	{
		id: "veteran-collector", name: "Veteran Collector", description: "Collect 15 cards of players with 5 or more appearances",
		progress: func(v view) (int, int) {
			return v.countOwned(func(c model.Card) bool {
				return v.careers[c.PlayerID].Appearances >= veteranAppearances
			}), veteranTarget
		},
	},
	{
		id: "half-collection", name: "Half Collection", description: "Collect half of all cards",
		progress: func(v view) (int, int) { return len(v.owned), len(v.cards) / 2 },
	},
	{
		id: "complete-collection", name: "Complete!", description: "Collect every card",
		progress: func(v view) (int, int) { return len(v.owned), len(v.cards) },
	},
}

func (v view) countOwned(match func(model.Card) bool) int {
	n := 0
	for _, c := range v.owned {
		if match(c) {
			n++
		}
	}
	return n
}

func playedForT1(teams []string) bool {
	for _, t := range teams {
		if strings.Contains(t, "T1") || strings.Contains(t, "SK Telecom") || strings.Contains(t, "SKT") {
			return true
		}
	}
	return false
}

// Challenges evaluates every challenge, in a fixed order.
func Challenges(ds *model.Dataset, s State) []Progress {
	v := view{careers: make(map[string]model.Career)}
	if ds != nil {
		v.cards = ds.Players
		v.owned = Owned(ds, s)
		for _, c := range ds.Careers {
			v.careers[c.PlayerID] = c
		}
	}

	out := make([]Progress, 0, len(challenges))
	for _, ch := range challenges {
		current, total := ch.progress(v)
		out = append(out, Progress{
			ID:          ch.id,
			Name:        ch.name,
			Description: ch.description,
			Current:     current,
			Total:       total,
			Completed:   total > 0 && current >= total,
		})
	}
	return out
}
