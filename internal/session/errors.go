package session

import "errors"

var (
	// ErrUserNotFound indicates a lookup for a user that was never created.
	ErrUserNotFound = errors.New("session: user not found")
	// ErrSessionOpen indicates an attempt to start a session while one is open.
	ErrSessionOpen = errors.New("session: session already open")
	// ErrNoOpenSession indicates a stop or resume without an open session.
	ErrNoOpenSession = errors.New("session: no open session")
)
