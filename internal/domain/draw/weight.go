package draw

import (
	"github.com/okian/gacha/internal/domain/model"
)

const (
	modernYear = 2022
	recentYear = 2019
	oldYear    = 2017
)

// WeightFunc returns a card's relative pick weight. Weights must be positive.
type WeightFunc func(model.Card) float64

// Weight favours strong leagues and recent years.
func Weight(c model.Card) float64 {
	return regionFactor(model.RegionOf(c.Team)) * recencyFactor(c.Year)
}

func regionFactor(r model.Region) float64 {
	switch r {
	case model.RegionLCK:
		return 2.5
	case model.RegionLPL:
		return 1.5
	case model.RegionLEC:
		return 1.2
	case model.RegionOther:
		return 0.4
	default:
		return 0.4
	}
}

func recencyFactor(year int) float64 {
	switch {
	case year >= modernYear:
		return 2.0
	case year >= recentYear:
		return 1.2
	case year <= oldYear:
		return 0.3
	default:
		return 1.0
	}
}

// PickWeighted scans candidates subtracting weights from u×total until the
// remainder is non-positive. Drift that leaves a remainder selects the last
// candidate. candidates must be non-empty.
func PickWeighted(u float64, candidates []model.Card, weight WeightFunc) model.Card {
	var total float64
	for _, c := range candidates {
		total += weight(c)
	}
	roll := u * total
	for _, c := range candidates {
		roll -= weight(c)
		if roll <= 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}
