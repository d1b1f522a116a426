package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrNotStarted indicates an operation that needs a running pipeline.
	ErrNotStarted = errors.New("service not started")
)
