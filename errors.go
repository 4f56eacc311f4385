package cavegen

import (
	"errors"
	"fmt"
)

// ErrAborted is returned by Driver.Run when the run's context is
// canceled before last_generation is reached — a user-triggered
// window close or any key-up.
var ErrAborted = errors.New("cavegen: aborted")

// ConfigError wraps a configuration validation failure: dimensions
// that don't divide, a mesh shape that doesn't match the process
// count, a grid too large for graphics, or a missing config file with
// defaults declined. Always fatal.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "cavegen: configuration error: " + e.Reason }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// MessagingError wraps an unexpected failure from the Transport
// substrate (collective or point-to-point). Never recovered; it
// aborts the job.
type MessagingError struct {
	Rank int
	Err  error
}

func (e *MessagingError) Error() string {
	return fmt.Sprintf("cavegen: messaging error on rank %d: %v", e.Rank, e.Err)
}

func (e *MessagingError) Unwrap() error { return e.Err }

// WindowError wraps a root-only windowing-adapter initialization
// failure (font/display/queue/timer). Logged, and the job proceeds
// headless when drawing can be skipped, otherwise it aborts.
type WindowError struct {
	Err error
}

func (e *WindowError) Error() string { return "cavegen: window error: " + e.Err.Error() }

func (e *WindowError) Unwrap() error { return e.Err }
