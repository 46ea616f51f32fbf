package repository

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates an insert hit a uniqueness constraint.
	ErrAlreadyExists = errors.New("already exists")
)
