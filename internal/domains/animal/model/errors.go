package model

import "errors"

var (
	ErrAnimalNotFound   = errors.New("animal not found")
	ErrValidationFailed = errors.New("validation failed")
)
