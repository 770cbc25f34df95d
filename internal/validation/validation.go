// Package validation checks user supplied parameters before any work starts
package validation

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	perferrors "virtperf/internal/errors"
)

// ValidationError represents a validation failure of a single parameter.
// Code is ErrCodeMissingParam for absent values, ErrCodeInvalidConfig otherwise.
type ValidationError struct {
	Code    perferrors.ErrorCode
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("params[%s] %s", e.Field, e.Message)
	}
	return fmt.Sprintf("params[%s] %s (got %q)", e.Field, e.Message, e.Value)
}

// Params is a raw, untyped parameter set as merged from the defaults file and
// the command line. Values keep the Go type their source produced.
type Params map[string]interface{}

func missing(field string) error {
	return &ValidationError{Code: perferrors.ErrCodeMissingParam, Field: field, Message: "is a required parameter"}
}

func invalid(field string, value interface{}, msg string) error {
	return &ValidationError{Code: perferrors.ErrCodeInvalidConfig, Field: field, Value: fmt.Sprintf("%v", value), Message: msg}
}

// =============================================================================
// Typed accessors
// =============================================================================

// RequireString returns params[field] when it is present and a string
func RequireString(p Params, field string) (string, error) {
	v, ok := p[field]
	if !ok || v == nil {
		return "", missing(field)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(field, v, "must be string")
	}
	return s, nil
}

// RequireIntRange returns params[field] when it is an integer in [min, max]
func RequireIntRange(p Params, field string, min, max int) (int, error) {
	v, ok := p[field]
	if !ok || v == nil {
		return 0, missing(field)
	}
	n, ok := asInt(v)
	if !ok || n < min || n > max {
		return 0, invalid(field, v, fmt.Sprintf("must be an integer between %d and %d", min, max))
	}
	return n, nil
}

// RequireIntChoice returns params[field] when it is one of the allowed integers
func RequireIntChoice(p Params, field string, choices ...int) (int, error) {
	v, ok := p[field]
	if !ok || v == nil {
		return 0, missing(field)
	}
	if n, ok := asInt(v); ok {
		for _, c := range choices {
			if n == c {
				return n, nil
			}
		}
	}
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = strconv.Itoa(c)
	}
	return 0, invalid(field, v, "must be integer "+strings.Join(names, " or "))
}

// RequireList returns params[field] as a non-empty list of strings.
// Elements may be strings or integers; integers are formatted in base 10.
func RequireList(p Params, field string) ([]string, error) {
	v, ok := p[field]
	if !ok || v == nil {
		return nil, missing(field)
	}

	var items []interface{}
	switch list := v.(type) {
	case []string:
		for _, s := range list {
			items = append(items, s)
		}
	case []interface{}:
		items = list
	default:
		return nil, invalid(field, v, "must be a list")
	}

	if len(items) == 0 {
		return nil, invalid(field, v, "must not be empty")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		switch e := item.(type) {
		case string:
			e = strings.TrimSpace(e)
			if e == "" {
				return nil, invalid(field, v, "must not contain empty items")
			}
			out = append(out, e)
		default:
			n, ok := asInt(e)
			if !ok {
				return nil, invalid(field, v, "items must be strings or integers")
			}
			out = append(out, strconv.Itoa(n))
		}
	}
	return out, nil
}

// asInt accepts every Go integer kind. Booleans and floats are rejected.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}

// =============================================================================
// Path validation
// =============================================================================

// ValidateExistingDir checks that path exists and is a directory
func ValidateExistingDir(field, path string) error {
	if path == "" {
		return missing(field)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return invalid(field, path, "does not exist")
		}
		return invalid(field, path, err.Error())
	}
	if !info.IsDir() {
		return invalid(field, path, "is not a directory")
	}
	return nil
}
