// Package scoring derives card scores from historical results and maps
// scores onto rarity grades.
package scoring

import "github.com/okian/gacha/internal/domain/model"

// Multipliers are kept as percentages so that derivation is exact integer
// arithmetic and rounds half-up without floating-point drift.
const (
	percentScale        = 100
	topRegionPercent    = 125
	modernEraPercent    = 130
	recentEraPercent    = 110
	earlyEraPercent     = 90
	neutralPercent      = 100
	modernEraStart      = 2022
	recentEraStart      = 2019
	earlyEraEnd         = 2015
	defaultLegendaryMin = 100
	defaultEpicMin      = 70
	defaultRareMin      = 45
	defaultUncommonMin  = 25
)

// Thresholds are the minimum scores of each scored grade. Anything below
// Uncommon is Common.
type Thresholds struct {
	Legendary int
	Epic      int
	Rare      int
	Uncommon  int
}

// DefaultThresholds returns the 100/70/45/25 partition.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Legendary: defaultLegendaryMin,
		Epic:      defaultEpicMin,
		Rare:      defaultRareMin,
		Uncommon:  defaultUncommonMin,
	}
}

// Input abstracts the row fields needed for scoring.
type Input struct {
	Result model.Result
	Year   int
	Team   string
}

// Scorer derives a score and grade for a historical result.
type Scorer interface {
	Score(in Input) int
	Grade(score int) model.Grade
}

// Option applies a configuration option to the TableScorer.
type Option func(*TableScorer)

// WithTopRegion sets the region whose teams receive the regional multiplier.
func WithTopRegion(region model.Region) Option {
	return func(s *TableScorer) {
		if region != "" {
			s.topRegion = region
		}
	}
}

// WithThresholds overrides grade thresholds. Non-descending sets are ignored.
func WithThresholds(t Thresholds) Option {
	return func(s *TableScorer) {
		if t.Legendary > t.Epic && t.Epic > t.Rare && t.Rare > t.Uncommon {
			s.thresholds = t
		}
	}
}

// TableScorer implements Scorer with fixed lookup tables.
type TableScorer struct {
	topRegion  model.Region
	thresholds Thresholds
}

// NewTableScorer creates a scorer with the default tables.
func NewTableScorer(opts ...Option) *TableScorer {
	s := &TableScorer{
		topRegion:  model.RegionLCK,
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns round_half_up(base × regional × temporal).
func (s *TableScorer) Score(in Input) int {
	regional := neutralPercent
	if model.RegionOf(in.Team) == s.topRegion {
		regional = topRegionPercent
	}
	scaled := BasePoints(in.Result) * regional * eraPercent(in.Year)
	const denom = percentScale * percentScale
	return (scaled + denom/2) / denom
}

// Grade walks thresholds from the highest down; the first one met wins.
func (s *TableScorer) Grade(score int) model.Grade {
	switch {
	case score >= s.thresholds.Legendary:
		return model.GradeLegendary
	case score >= s.thresholds.Epic:
		return model.GradeEpic
	case score >= s.thresholds.Rare:
		return model.GradeRare
	case score >= s.thresholds.Uncommon:
		return model.GradeUncommon
	default:
		return model.GradeCommon
	}
}

// BasePoints returns the base value of a placement. Unknown results score 0.
func BasePoints(r model.Result) int {
	switch r {
	case model.ResultChampion:
		return 100
	case model.ResultRunnerUp:
		return 60
	case model.ResultSemifinals:
		return 35
	case model.ResultQuarterfinals:
		return 20
	case model.ResultGroupStage:
		return 10
	default:
		return 0
	}
}

// eraPercent checks bands newest first.
func eraPercent(year int) int {
	switch {
	case year >= modernEraStart:
		return modernEraPercent
	case year >= recentEraStart:
		return recentEraPercent
	case year <= earlyEraEnd:
		return earlyEraPercent
	default:
		return neutralPercent
	}
}

var defaultScorer = NewTableScorer()

// DeriveScore scores a result with the default tables.
func DeriveScore(result model.Result, year int, team string) int {
	return defaultScorer.Score(Input{Result: result, Year: year, Team: team})
}

// ClassifyGrade grades a score with the default thresholds.
func ClassifyGrade(score int) model.Grade {
	return defaultScorer.Grade(score)
}
