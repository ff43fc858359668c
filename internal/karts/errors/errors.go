package errors

import "errors"

var (
	ErrNotFound = errors.New("kart not found")

	ErrInvalidID = errors.New("invalid kart ID format")

	ErrDuplicateCode = errors.New("kart with this code already exists")
)
