package model

import "errors"

var (
	ErrRequestNotFound  = errors.New("adoption request not found")
	ErrValidationFailed = errors.New("validation failed")
	// ErrAnimalAdopted: animal đã có request approved khác
	ErrAnimalAdopted = errors.New("animal already adopted")
)
