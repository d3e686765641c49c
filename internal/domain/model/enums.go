// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Position is one of the five roster slots.
type Position string

// Roster positions in slot order.
const (
	PositionTop     Position = "TOP"
	PositionJungle  Position = "JGL"
	PositionMid     Position = "MID"
	PositionADC     Position = "ADC"
	PositionSupport Position = "SUP"
)

// PositionCount is the number of slots in a team.
const PositionCount = 5

// Positions returns every position in slot order.
func Positions() [PositionCount]Position {
	return [PositionCount]Position{PositionTop, PositionJungle, PositionMid, PositionADC, PositionSupport}
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	switch p {
	case PositionTop, PositionJungle, PositionMid, PositionADC, PositionSupport:
		return true
	default:
		return false
	}
}

// ParsePosition parses a position label case-insensitively.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: position %q", ErrUnknownEnum, s)
	}
	return p, nil
}

// Grade is a card rarity tier.
type Grade string

// Grades from rarest to most common.
const (
	GradeDemonKing Grade = "DEMON_KING"
	GradeLegendary Grade = "LEGENDARY"
	GradeEpic      Grade = "EPIC"
	GradeRare      Grade = "RARE"
	GradeUncommon  Grade = "UNCOMMON"
	GradeCommon    Grade = "COMMON"
)

// Grades returns every grade ordered from rarest to most common.
// Probability walks and fallback searches both follow this order.
func Grades() []Grade {
	return []Grade{GradeDemonKing, GradeLegendary, GradeEpic, GradeRare, GradeUncommon, GradeCommon}
}

// Rank returns the index of g in Grades, or -1 for an unknown grade.
func (g Grade) Rank() int {
	switch g {
	case GradeDemonKing:
		return 0
	case GradeLegendary:
		return 1
	case GradeEpic:
		return 2
	case GradeRare:
		return 3
	case GradeUncommon:
		return 4
	case GradeCommon:
		return 5
	default:
		return -1
	}
}

// Valid reports whether g is a known grade.
func (g Grade) Valid() bool { return g.Rank() >= 0 }

// ParseGrade parses a grade label case-insensitively.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: grade %q", ErrUnknownEnum, s)
	}
	return g, nil
}

// Result is a tournament placement.
type Result string

// Results from best to worst.
const (
	ResultChampion      Result = "Champion"
	ResultRunnerUp      Result = "Runner-up"
	ResultSemifinals    Result = "Semifinals"
	ResultQuarterfinals Result = "Quarterfinals"
	ResultGroupStage    Result = "Group Stage"
)

// Results returns every result ordered from best to worst.
func Results() []Result {
	return []Result{ResultChampion, ResultRunnerUp, ResultSemifinals, ResultQuarterfinals, ResultGroupStage}
}

// Rank returns the index of r in Results (0 is best), or -1 for an unknown result.
func (r Result) Rank() int {
	switch r {
	case ResultChampion:
		return 0
	case ResultRunnerUp:
		return 1
	case ResultSemifinals:
		return 2
	case ResultQuarterfinals:
		return 3
	case ResultGroupStage:
		return 4
	default:
		return -1
	}
}

// Valid reports whether r is a known result.
func (r Result) Valid() bool { return r.Rank() >= 0 }

// BetterThan reports whether r is a strictly better placement than other.
func (r Result) BetterThan(other Result) bool {
	return r.Rank() < other.Rank()
}

// ParseResult parses a result label exactly as it appears in the source data.
func ParseResult(s string) (Result, error) {
	r := Result(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: result %q", ErrUnknownEnum, s)
	}
	return r, nil
}
