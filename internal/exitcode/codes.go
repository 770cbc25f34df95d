package exitcode

import "errors"

// Process exit codes. Both pipelines only distinguish pass (0) and fail (1);
// command line usage errors exit with 2 like most CLI parsers.
const (
	// Success - operation completed successfully
	Success = 0

	// General - any validation, data or I/O failure
	General = 1

	// UsageError - command line usage error (unknown flag, value out of range)
	UsageError = 2
)

// UsageErr marks an error caused by malformed command line input
type UsageErr struct {
	Err error
}

func (e *UsageErr) Error() string { return e.Err.Error() }

func (e *UsageErr) Unwrap() error { return e.Err }

// Usage wraps err as a usage error. A nil err stays nil.
func Usage(err error) error {
	if err == nil {
		return nil
	}
	return &UsageErr{Err: err}
}

// ExitWithCode returns the exit code for err
func ExitWithCode(err error) int {
	if err == nil {
		return Success
	}
	var usage *UsageErr
	if errors.As(err, &usage) {
		return UsageError
	}
	return General
}
