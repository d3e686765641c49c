// Package battle aggregates team power and resolves slot-by-slot battles.
package battle

import (
	"math"

	"github.com/okian/gacha/internal/domain/model"
)

const (
	modernYear   = 2022
	recentYear   = 2019
	modernBonus  = 5
	recentBonus  = 2
	jitterSpread = 20.0
	jitterOffset = 10.0
)

// TeamPower is the sum of the stored card scores.
func TeamPower(cards []model.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Score
	}
	return total
}

// BasePower maps a grade to its combat base.
func BasePower(g model.Grade) int {
	switch g {
	case model.GradeDemonKing:
		return 110
	case model.GradeLegendary:
		return 95
	case model.GradeEpic:
		return 80
	case model.GradeRare:
		return 65
	case model.GradeUncommon:
		return 50
	case model.GradeCommon:
		return 35
	default:
		return 0
	}
}

// ResultBonus rewards deeper tournament runs.
func ResultBonus(r model.Result) int {
	switch r {
	case model.ResultChampion:
		return 10
	case model.ResultRunnerUp:
		return 6
	case model.ResultSemifinals:
		return 4
	case model.ResultQuarterfinals:
		return 2
	case model.ResultGroupStage:
		return 0
	default:
		return 0
	}
}

// RecencyBonus favours recent meta.
func RecencyBonus(year int) int {
	switch {
	case year >= modernYear:
		return modernBonus
	case year >= recentYear:
		return recentBonus
	default:
		return 0
	}
}

// SlotPower combines the card's fixed bonuses with a jitter in [-10, 10)
// derived from u in [0, 1), rounded half-up.
func SlotPower(c model.Card, u float64) int {
	jitter := u*jitterSpread - jitterOffset
	raw := float64(BasePower(c.Grade)+ResultBonus(c.Result)+RecencyBonus(c.Year)) + jitter
	return int(math.Floor(raw + 0.5))
}
