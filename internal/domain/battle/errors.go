package battle

import "errors"

// ErrInvalidTeam is returned when the two teams cannot be paired slot by
// slot: empty, of different sizes or with mismatched positions.
var ErrInvalidTeam = errors.New("invalid team")
