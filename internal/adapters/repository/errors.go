package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("user not found")
	ErrInvalidRating = errors.New("rating outside 1..5")
)
