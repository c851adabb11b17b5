package auth

import "errors"

var (
	// ErrNoLoginToken is returned when a login response carries no token.
	ErrNoLoginToken = errors.New("No token in login response (check backend response shape)") //nolint:staticcheck // shown to the user as is

	// ErrNoRegisterToken is returned when a register response carries no token.
	ErrNoRegisterToken = errors.New("No token in register response (check backend response shape)") //nolint:staticcheck // shown to the user as is
)
