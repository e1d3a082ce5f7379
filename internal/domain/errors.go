package domain

import "errors"

var (
	ErrNotFound                 = errors.New("not found")
	ErrValidation               = errors.New("validation failed")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrInsufficientAvailability = errors.New("insufficient availability")
	ErrUnauthorized             = errors.New("unauthorized")
)
