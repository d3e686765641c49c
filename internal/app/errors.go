package service

import "errors"

var (
	// ErrNotStarted is returned by operations called before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoDataset is returned while no dataset has been loaded.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrUnknownCard is returned for a card id the dataset does not hold.
	ErrUnknownCard = errors.New("unknown card")
	// ErrUnknownPlayer is returned for a player id the dataset does not hold.
	ErrUnknownPlayer = errors.New("unknown player")
)
