package render

import "errors"

var (
	// ErrStopped is returned by Frame and Start once Stop has been called.
	ErrStopped = errors.New("render: renderer stopped")

	// ErrRunning is returned by Start when the loop is already running.
	ErrRunning = errors.New("render: loop already running")

	// ErrFramePanic wraps a panic recovered at the frame boundary.
	ErrFramePanic = errors.New("render: frame panicked")
)
