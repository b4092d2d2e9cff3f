package model

import "errors"

// Domain errors. Handlers map these to HTTP statuses in one place.
var (
	ErrEmailTaken = errors.New("email already registered")
	ErrBadCreds   = errors.New("invalid credentials")
	ErrNotFound   = errors.New("not found")
	ErrNotADoctor = errors.New("referenced user is not a doctor")
	ErrNotOwner   = errors.New("not authorized for this appointment")
	ErrNotPending = errors.New("appointment already responded to")
)
