package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound         = errors.New("collector not found")
	ErrInvalidCollector = errors.New("invalid collector id")
	ErrClosed           = errors.New("store closed")
)
