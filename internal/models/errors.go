package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")

	// ErrAlreadyRunning is returned by Start when the batch id is
	// already tracked as an active run in this process.
	ErrAlreadyRunning = errors.New("batch already running")
)
