package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist or is not
	// owned by the calling account.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken indicates an account with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
)
