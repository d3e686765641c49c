package draw

import (
	"context"
	"math"
	"sort"

	"github.com/okian/gacha/internal/domain/model"
)

const cancelCheckEvery = 1024

// PowerFunc scores a drawn team.
type PowerFunc func(cards []model.Card) int

// PowerStats summarizes team power across simulated draws.
type PowerStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Simulation is the outcome of repeated team draws.
type Simulation struct {
	Teams     int                 `json:"teams"`
	Slots     int                 `json:"slots"`
	Rolled    map[model.Grade]int `json:"rolled"`
	Delivered map[model.Grade]int `json:"delivered"`
	Fallbacks int                 `json:"fallbacks"`
	Power     PowerStats          `json:"power"`
}

// RolledShare returns the observed share of slot rolls that landed on g.
func (s Simulation) RolledShare(g model.Grade) float64 {
	if s.Slots == 0 {
		return 0
	}
	return float64(s.Rolled[g]) / float64(s.Slots)
}

// Simulate draws n teams and tallies rolled and delivered grades, fallbacks
// and the power of each team. ctx is checked periodically.
func Simulate(ctx context.Context, e *Engine, n int, power PowerFunc) (Simulation, error) {
	sim := Simulation{
		Rolled:    make(map[model.Grade]int, len(model.Grades())),
		Delivered: make(map[model.Grade]int, len(model.Grades())),
	}
	for _, g := range model.Grades() {
		sim.Rolled[g] = 0
		sim.Delivered[g] = 0
	}
	if n <= 0 {
		return sim, nil
	}

	powers := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return sim, err
			}
		}
		pull, err := e.Pull()
		if err != nil {
			return sim, err
		}
		sim.Teams++
		for _, slot := range pull.Slots {
			sim.Slots++
			sim.Rolled[slot.Rolled]++
			sim.Delivered[slot.Card.Grade]++
			if slot.Fallback() {
				sim.Fallbacks++
			}
		}
		if power != nil {
			powers = append(powers, power(pull.Team.Cards()))
		}
	}
	sim.Power = powerStats(powers)
	return sim, nil
}

func powerStats(xs []int) PowerStats {
	n := len(xs)
	if n == 0 {
		return PowerStats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}

	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	percentile := func(p float64) float64 {
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		if i+1 >= n {
			return float64(sorted[n-1])
		}
		f := pos - float64(i)
		return float64(sorted[i])*(1-f) + float64(sorted[i+1])*f
	}

	return PowerStats{
		Mean:   mean,
		StdDev: math.Sqrt(acc / float64(n)),
		Min:    sorted[0],
		Max:    sorted[n-1],
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}
