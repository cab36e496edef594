package exitcodes

import (
	"errors"
	"fmt"
	"os"
)

// Standard exit codes for nexcart-installer
const (
	// Success indicates successful command completion
	Success = 0

	// GeneralError indicates a general/unknown error
	GeneralError = 1

	// InvalidArgs indicates invalid command-line arguments or flags
	InvalidArgs = 2

	// PreconditionFailed indicates a precondition was not met
	// (e.g., not installed, insufficient disk space, already installed)
	PreconditionFailed = 3

	// NetworkError indicates a transient network failure
	// (feed unreachable, download interrupted, timeout); safe to retry
	NetworkError = 4

	// DataError indicates malformed feed data or a missing release asset;
	// terminal for the current run, needs operator action before retrying
	DataError = 5

	// ValidationError indicates an upgrade validation rejection
	// (downgrade attempt, already-current version)
	ValidationError = 6

	// ProtocolError indicates a handoff decode failure (missing or
	// malformed required fields); fatal for the receiving process
	ProtocolError = 7
)

// Exit terminates the program with the given code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError prints error message to stderr and exits with the given code
func ExitWithError(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

// ExitWithErrorf prints formatted error message to stderr and exits
func ExitWithErrorf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

// CodeForError returns the appropriate exit code for an error.
// Unwraps ErrorWithCode for explicit codes, otherwise returns GeneralError.
func CodeForError(err error) int {
	if err == nil {
		return Success
	}
	var ec *ErrorWithCode
	if errors.As(err, &ec) {
		return ec.Code
	}
	return GeneralError
}
