package repository

import "errors"

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is wrapped when an insert hits a unique constraint.
	ErrAlreadyExists = errors.New("already exists")
)
