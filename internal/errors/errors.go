// Package errors provides structured error types for virtperf
// with error codes, categories, and remediation guidance
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Format: VIRTPERF-<CATEGORY><NUMBER>
// Categories: C=Config, E=Environment, D=Data
const (
	// Configuration errors (user fix)
	ErrCodeInvalidConfig ErrorCode = "VIRTPERF-C001"
	ErrCodeMissingParam  ErrorCode = "VIRTPERF-C002"
	ErrCodeInvalidPath   ErrorCode = "VIRTPERF-C003"

	// Environment errors (infrastructure fix)
	ErrCodeToolMissing ErrorCode = "VIRTPERF-E001"
	ErrCodeWriteFailed ErrorCode = "VIRTPERF-E002"
	ErrCodeMkdirFailed ErrorCode = "VIRTPERF-E003"
	ErrCodeReadFailed  ErrorCode = "VIRTPERF-E004"

	// Data errors (investigate the benchmark logs)
	ErrCodeUnitMismatch    ErrorCode = "VIRTPERF-D001"
	ErrCodeKPIExtraction   ErrorCode = "VIRTPERF-D002"
	ErrCodeUnknownTestType ErrorCode = "VIRTPERF-D003"
	ErrCodeBadArchive      ErrorCode = "VIRTPERF-D004"
)

// Category represents error categories
type Category string

const (
	CategoryConfig      Category = "configuration"
	CategoryEnvironment Category = "environment"
	CategoryData        Category = "data"
)

// PerfError is a structured error with code, category, and remediation
type PerfError struct {
	Code        ErrorCode
	Category    Category
	Message     string
	Details     string
	Remediation string
	Cause       error
}

func (e *PerfError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += fmt.Sprintf("\n\nDetails:\n  %s", e.Details)
	}
	if e.Remediation != "" {
		msg += fmt.Sprintf("\n\nTo fix:\n  %s", e.Remediation)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *PerfError) Unwrap() error {
	return e.Cause
}

// Is matches on error code
func (e *PerfError) Is(target error) bool {
	if t, ok := target.(*PerfError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithCause adds an underlying cause
func (e *PerfError) WithCause(cause error) *PerfError {
	e.Cause = cause
	return e
}

// NewConfigError creates a configuration error
func NewConfigError(code ErrorCode, message string, remediation string) *PerfError {
	return &PerfError{
		Code:        code,
		Category:    CategoryConfig,
		Message:     message,
		Remediation: remediation,
	}
}

// NewEnvError creates an environment error
func NewEnvError(code ErrorCode, message string, remediation string) *PerfError {
	return &PerfError{
		Code:        code,
		Category:    CategoryEnvironment,
		Message:     message,
		Remediation: remediation,
	}
}

// NewDataError creates a data error
func NewDataError(code ErrorCode, message string, remediation string) *PerfError {
	return &PerfError{
		Code:        code,
		Category:    CategoryData,
		Message:     message,
		Remediation: remediation,
	}
}

// InvalidConfig wraps one or more parameter validation failures
func InvalidConfig(cause error) *PerfError {
	return &PerfError{
		Code:     ErrCodeInvalidConfig,
		Category: CategoryConfig,
		Message:  "Invalid sweep configuration",
		Details:  cause.Error(),
		Remediation: `Pass the missing values as flags (see --help) or add them
  under the FioTestRunner key of the defaults file.`,
		Cause: cause,
	}
}

// ToolMissing creates a missing tool error
func ToolMissing(tool string, purpose string) *PerfError {
	return &PerfError{
		Code:     ErrCodeToolMissing,
		Category: CategoryEnvironment,
		Message:  fmt.Sprintf("Required tool not found: %s", tool),
		Details:  fmt.Sprintf("Purpose: %s", purpose),
		Remediation: fmt.Sprintf(`Install %s using your package manager:

     RHEL/Fedora:    sudo dnf install %s
     Ubuntu/Debian:  sudo apt install %s`, tool, tool, tool),
	}
}

// WriteFailed creates a file write error naming the path
func WriteFailed(path string, cause error) *PerfError {
	return &PerfError{
		Code:        ErrCodeWriteFailed,
		Category:    CategoryEnvironment,
		Message:     fmt.Sprintf("Error while dumping to csv file %q", path),
		Details:     cause.Error(),
		Remediation: "Check that the directory exists and is writable, or pass another --report_csv.",
		Cause:       cause,
	}
}

// UnitMismatch creates a throughput unit mismatch error
func UnitMismatch(file, test, expected, actual string) *PerfError {
	return &PerfError{
		Code:     ErrCodeUnitMismatch,
		Category: CategoryData,
		Message:  fmt.Sprintf("Bandwidth unit is not %q", expected),
		Details:  fmt.Sprintf("File: %s\nTest: %s\nUnit: %s", file, test, actual),
		Remediation: `The netperf log was produced with a different output unit.
  Re-run the test with throughput reported in 10^6bits/s.`,
	}
}

// KPIExtraction creates an error for a parsed log missing a required field
func KPIExtraction(file, field string) *PerfError {
	return &PerfError{
		Code:     ErrCodeKPIExtraction,
		Category: CategoryData,
		Message:  fmt.Sprintf("Error while extracting performance KPIs: missing %s", field),
		Details:  fmt.Sprintf("File: %s", file),
		Remediation: `The log is valid JSON but not a complete netperf result.
  Remove it from the result path or re-run the test.`,
	}
}

// UnknownTestType creates an error for a test name outside both test families
func UnknownTestType(file, name string) *PerfError {
	return &PerfError{
		Code:     ErrCodeUnknownTestType,
		Category: CategoryData,
		Message:  fmt.Sprintf("Unknown netperf test type %q", name),
		Details:  fmt.Sprintf("File: %s", file),
		Remediation: `Supported tests are TCP_STREAM, TCP_MAERTS, UDP_STREAM, UDP_MAERTS,
  TCP_RR, TCP_CRR and UDP_RR. Drop --strict to keep such rows with empty KPIs.`,
	}
}

// BadArchive creates an error for a result archive that cannot be unpacked
func BadArchive(path string, cause error) *PerfError {
	return &PerfError{
		Code:        ErrCodeBadArchive,
		Category:    CategoryData,
		Message:     fmt.Sprintf("Error while extracting archive %q", path),
		Details:     cause.Error(),
		Remediation: "The archive is skipped. Re-create it with tar -czf or remove it from --result_path.",
		Cause:       cause,
	}
}

// GetCode returns the error code if available
func GetCode(err error) ErrorCode {
	var perfErr *PerfError
	if errors.As(err, &perfErr) {
		return perfErr.Code
	}
	return ""
}
