package demoserver

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBoom is the failure recorded on a boom message span.
	ErrBoom = errors.New("boom requested by client")
)
