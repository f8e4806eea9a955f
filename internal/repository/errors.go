package repository

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("unique constraint violated")
	ErrUnavailable = errors.New("store unavailable")
)
