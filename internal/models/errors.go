package models

import "errors"

// Custom errors
var (
	ErrDataUnavailable = errors.New("matchup data unavailable")
	ErrPlayerNotFound  = errors.New("player not found")
)
