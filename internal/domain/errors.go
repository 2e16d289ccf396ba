package domain

import "errors"

var (
	// ErrNotFound covers both a missing record and a record owned by another
	// tenant; the two are indistinguishable on purpose, every query is
	// org-scoped.
	ErrNotFound = errors.New("record not found")

	// ErrStepNotWaiting is returned by resume when the named step is not
	// parked in WAITING_USER.
	ErrStepNotWaiting = errors.New("step is not waiting for user input")

	// ErrStepMismatch is returned by resume when the step does not belong to
	// the named execution.
	ErrStepMismatch = errors.New("step does not belong to execution")
)
