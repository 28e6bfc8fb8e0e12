package userdb

import "errors"

// Store-level sentinel errors.
var (
	// ErrDuplicateKey is returned when a user adds key material they
	// already have stored.
	ErrDuplicateKey = errors.New("api key already exists")

	// ErrNotFound is returned when the targeted user or key does not
	// exist.
	ErrNotFound = errors.New("not found")
)
