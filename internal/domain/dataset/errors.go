// Package dataset turns raw historical rows into the immutable card dataset.
package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrParse         = errors.New("parse rows failed")
	ErrDecode        = errors.New("decode dataset failed")
	ErrNoCards       = errors.New("dataset has no cards")
	ErrEmptyPosition = errors.New("dataset has no cards for a position")
	ErrInvalidCard   = errors.New("invalid card")
	ErrDuplicateCard = errors.New("duplicate card id")
)
