package model

import "time"

// Card is one player's card for one tournament year.
// Cards are built once by the dataset builder and never mutated.
type Card struct {
	ID       string   `json:"id"`       // playerId-year, unique across a dataset
	PlayerID string   `json:"playerId"` // stable slug shared by all years of a player
	Name     string   `json:"name"`
	Year     int      `json:"year"`
	Team     string   `json:"team"`
	Position Position `json:"position"`
	Grade    Grade    `json:"grade"`
	Score    int      `json:"score"`
	Result   Result   `json:"result"`
}

// Career aggregates every card of a single player.
type Career struct {
	PlayerID      string   `json:"playerId"`
	Name          string   `json:"name"`
	Appearances   int      `json:"appearances"`
	Championships int      `json:"championships"`
	Finals        int      `json:"finals"`
	Semifinals    int      `json:"semifinals"`
	BestResult    Result   `json:"bestResult"`
	Teams         []string `json:"teams"`
	Years         []int    `json:"years"`
}

// YearRange is the inclusive span of card years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Metadata summarizes a dataset.
type Metadata struct {
	TotalCards           int              `json:"totalCards"`
	TotalPlayers         int              `json:"totalPlayers"`
	GeneratedAt          time.Time        `json:"generatedAt"`
	GradeDistribution    map[Grade]int    `json:"gradeDistribution"`
	PositionDistribution map[Position]int `json:"positionDistribution"`
	YearRange            YearRange        `json:"yearRange"`
}

// Dataset is the document produced by the builder and read by the runtime.
type Dataset struct {
	Metadata Metadata `json:"metadata"`
	Players  []Card   `json:"players"`
	Careers  []Career `json:"careers"`
}

// Team holds one card per position, in slot order.
type Team [PositionCount]Card

// Cards returns the team as a slice.
func (t Team) Cards() []Card {
	return t[:]
}

// IDs returns the card ids in slot order.
func (t Team) IDs() []string {
	ids := make([]string, 0, PositionCount)
	for _, c := range t {
		ids = append(ids, c.ID)
	}
	return ids
}
