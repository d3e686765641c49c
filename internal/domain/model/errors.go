package model

import "errors"

// ErrUnknownEnum is returned when a label does not name a known enum value.
var ErrUnknownEnum = errors.New("unknown enum value")
