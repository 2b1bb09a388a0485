package model

import "errors"

// Sentinel errors for metadata and state-table validation.
var (
	// ErrNoStates indicates a metadata object declared zero states.
	ErrNoStates = errors.New("model: no states declared")

	// ErrDuplicateValue indicates two states share the same dense value.
	ErrDuplicateValue = errors.New("model: duplicate state value")

	// ErrValueOutOfRange indicates a state's value is not in [0,nstates).
	ErrValueOutOfRange = errors.New("model: state value out of range")

	// ErrBadStart indicates metadata's "start" field did not contain
	// exactly two integers (seconds, nanoseconds).
	ErrBadStart = errors.New("model: start must be exactly [seconds, nanoseconds]")
)
