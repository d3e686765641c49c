package draw

import (
	"fmt"
	"math"

	"github.com/okian/gacha/internal/domain/model"
)

const distributionEpsilon = 1e-9

// Distribution maps each grade to its roll probability.
type Distribution map[model.Grade]float64

// UniformDistribution gives every grade the same chance.
func UniformDistribution() Distribution {
	grades := model.Grades()
	d := make(Distribution, len(grades))
	for _, g := range grades {
		d[g] = 1 / float64(len(grades))
	}
	return d
}

// Validate checks that every key is a known grade, no probability is
// negative and the total is one within floating-point tolerance.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidDistribution)
	}
	var sum float64
	for g, p := range d {
		if !g.Valid() {
			return fmt.Errorf("%w: unknown grade %q", ErrInvalidDistribution, g)
		}
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("%w: %s has probability %v", ErrInvalidDistribution, g, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > distributionEpsilon {
		return fmt.Errorf("%w: probabilities sum to %v", ErrInvalidDistribution, sum)
	}
	return nil
}

// Clone returns an independent copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for g, p := range d {
		out[g] = p
	}
	return out
}

// RollGrade walks the grades rarest first, accumulating probabilities; the
// first grade whose running total reaches u wins. If rounding leaves the
// total short of u, the last grade is returned.
func RollGrade(u float64, d Distribution) model.Grade {
	grades := model.Grades()
	var cumulative float64
	for _, g := range grades {
		cumulative += d[g]
		if u <= cumulative {
			return g
		}
	}
	return grades[len(grades)-1]
}
