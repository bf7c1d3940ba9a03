package session

import "errors"

var (
	// ErrTerminated is returned by Step once the episode is done; the call
	// leaves state untouched.
	ErrTerminated = errors.New("session: episode terminated")

	// ErrInvalidAction is returned for an action index outside the action
	// space; the call leaves state untouched.
	ErrInvalidAction = errors.New("session: invalid action")
)
