package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perferrors "virtperf/internal/errors"
)

// =============================================================================
// String Parameter Tests
// =============================================================================

func TestRequireString(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		want    string
		wantErr string
	}{
		{"present", Params{"backend": "NVME"}, "NVME", ""},
		{"empty string allowed", Params{"backend": ""}, "", ""},
		{"missing", Params{}, "", "is a required parameter"},
		{"nil value", Params{"backend": nil}, "", "is a required parameter"},
		{"wrong type", Params{"backend": 3}, "", "must be string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireString(tt.params, "backend")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidationError_FieldName(t *testing.T) {
	_, err := RequireString(Params{}, "driver")
	valErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if valErr.Field != "driver" {
		t.Errorf("Field = %q, want driver", valErr.Field)
	}
	if !strings.Contains(err.Error(), "params[driver]") {
		t.Errorf("message should name the field: %q", err.Error())
	}
}

func TestValidationError_Codes(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   perferrors.ErrorCode
	}{
		{"missing", Params{}, perferrors.ErrCodeMissingParam},
		{"nil", Params{"rounds": nil}, perferrors.ErrCodeMissingParam},
		{"out of range", Params{"rounds": 0}, perferrors.ErrCodeInvalidConfig},
		{"wrong type", Params{"rounds": "3"}, perferrors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequireIntRange(tt.params, "rounds", 1, 1000)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if valErr.Code != tt.want {
				t.Errorf("Code = %s, want %s", valErr.Code, tt.want)
			}
		})
	}
}

// =============================================================================
// Integer Parameter Tests
// =============================================================================

func TestRequireIntRange(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    int
		wantErr bool
	}{
		{"one", 1, 1, false},
		{"max", 1000, 1000, false},
		{"int64 from decoder", int64(3), 3, false},
		{"zero", 0, 0, true},
		{"too large", 1001, 0, true},
		{"string", "3", 0, true},
		{"float", 3.0, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireIntRange(Params{"rounds": tt.value}, "rounds", 1, 1000)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequireIntRange_Missing(t *testing.T) {
	if _, err := RequireIntRange(Params{}, "numjobs", 1, 65535); err == nil {
		t.Fatal("expected error for missing numjobs")
	}
}

func TestRequireIntChoice(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"two", 2, true},
		{"string one", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequireIntChoice(Params{"direct": tt.value}, "direct", 0, 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "0 or 1") {
				t.Errorf("message should list choices: %q", err.Error())
			}
		})
	}
}

// =============================================================================
// List Parameter Tests
// =============================================================================

func TestRequireList(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    []string
		wantErr bool
	}{
		{"string slice", []string{"4k", " 16k"}, []string{"4k", "16k"}, false},
		{"yaml mixed", []interface{}{1, "8", 64}, []string{"1", "8", "64"}, false},
		{"scalar string", "4k,16k", nil, true},
		{"empty", []string{}, nil, true},
		{"empty item", []string{"4k", ""}, nil, true},
		{"nested", []interface{}{[]string{"a"}}, nil, true},
		{"float item", []interface{}{1.5}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireList(Params{"bs_list": tt.value}, "bs_list")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Path Validation Tests
// =============================================================================

func TestValidateExistingDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.nplog.json")
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing dir", dir, false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "nope"), true},
		{"file", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExistingDir("result_path", tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExistingDir(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
