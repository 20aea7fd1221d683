package service

import "errors"

var (
	// ErrNotFound is returned when the task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the server rejects the session.
	ErrUnauthorized = errors.New("session expired or not authorized (run: taskctl login)")

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNotLoggedIn is returned when no stored session or token exists.
	ErrNotLoggedIn = errors.New("not logged in (run: taskctl login)")

	// ErrInvalidCredentials is returned when login is refused.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
