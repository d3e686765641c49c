// Package draw implements the weighted team draw: a grade roll per slot,
// an availability fallback across grades and a weighted pick among the
// remaining candidates.
package draw

import "errors"

var (
	// ErrEmptyPool is returned when a position has no cards at all. It means
	// the dataset is corrupt; retrying will not help.
	ErrEmptyPool = errors.New("empty candidate pool")
	// ErrInvalidDistribution is returned for grade probabilities that are
	// negative, name an unknown grade or do not sum to one.
	ErrInvalidDistribution = errors.New("invalid grade distribution")
)
