package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLink indicates a vehicle has no command link.
	ErrNoLink = errors.New("no link")
)

// UnknownCommandError reports a byte which is not a command.
type UnknownCommandError struct {
	Raw byte
}

// Error implements error.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Raw)
}
