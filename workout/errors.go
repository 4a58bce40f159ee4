package workout

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("no workouts logged yet")
	ErrPersistence = errors.New("persistence failed")
)
