package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Registry errors
	ErrAlreadyRegistered = errors.New("user is already registered")
	ErrUnknownUser       = errors.New("user not registered")
	ErrMalformedRecord   = errors.New("malformed user record")

	// Command errors
	ErrMissingParameter = errors.New("missing parameter")
	ErrUsage            = errors.New("invalid command usage")
	ErrUnknownCommand   = errors.New("unknown command")

	// Word game errors
	ErrInvalidLength     = errors.New("guess has the wrong length")
	ErrNotInWordlist     = errors.New("word not in word list")
	ErrPuzzleFinished    = errors.New("puzzle already finished today")
	ErrWordlistNotLoaded = errors.New("word list not loaded")

	// External process errors
	ErrExternalProcess = errors.New("external process failed")
	ErrProcessTimeout  = fmt.Errorf("%w: timed out", ErrExternalProcess)
	ErrCommandNotFound = errors.New("command not found")

	// Transport errors
	ErrTransportUnavailable = errors.New("transport unavailable")
	ErrTransportClosed      = errors.New("transport closed")
)
