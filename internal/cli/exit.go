package cli

import (
	"errors"
	"fmt"
)

// Process exit status of every zordcheck command.
const (
	ExitSuccess      = 0
	ExitSetup        = 1 // bad config, or a required first fetch failed
	ExitVerification = 2 // probe failures, drift or validation problems
	ExitInterrupted  = 130
)

// ExitError carries an exit status out of a cobra RunE. An empty Message
// means the command already reported the problem and main prints nothing.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit status to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps a command error to the process exit status. Errors
// that carry no status are setup errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if exitErr := (*ExitError)(nil); errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSetup
}
