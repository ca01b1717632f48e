package events

import "errors"

var ErrInvalidEvent = errors.New("invalid verification event")
