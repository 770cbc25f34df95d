package tools

import (
	"fmt"
	"os/exec"
	"strings"

	"virtperf/internal/logger"
)

// ToolRequirement describes a tool that may be needed for an operation.
type ToolRequirement struct {
	Name     string // e.g. "fio"
	Purpose  string // e.g. "disk benchmark"
	Required bool   // false = informational only
}

// ToolStatus reports the availability of a single tool.
type ToolStatus struct {
	Name      string
	Path      string
	Version   string
	Available bool
}

// MissingToolError lists required tools that were not found on PATH.
type MissingToolError struct {
	Missing []ToolRequirement
}

func (e *MissingToolError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = r.Name
	}
	return fmt.Sprintf("missing required tools: %s", strings.Join(names, ", "))
}

// Validator checks whether external CLI tools are present on the system.
type Validator struct {
	log logger.Logger

	// LookPathFunc can be overridden in tests to stub exec.LookPath.
	LookPathFunc func(file string) (string, error)

	// VersionFunc can be overridden in tests to avoid running the tool.
	VersionFunc func(tool string) string
}

// NewValidator creates a Validator that logs through log.
func NewValidator(log logger.Logger) *Validator {
	return &Validator{
		log:          log,
		LookPathFunc: exec.LookPath,
		VersionFunc:  getToolVersion,
	}
}

// ValidateTools checks every requirement and returns per-tool status.
// An error is returned only when at least one *required* tool is missing.
func (v *Validator) ValidateTools(reqs []ToolRequirement) ([]ToolStatus, error) {
	results := make([]ToolStatus, 0, len(reqs))
	var missing []ToolRequirement

	for _, req := range reqs {
		ts := ToolStatus{Name: req.Name}

		path, err := v.LookPathFunc(req.Name)
		if err != nil {
			if req.Required {
				missing = append(missing, req)
			}
			if v.log != nil {
				v.log.Debug("tool not found", "tool", req.Name, "purpose", req.Purpose)
			}
		} else {
			ts.Available = true
			ts.Path = path
			if v.VersionFunc != nil {
				ts.Version = v.VersionFunc(path)
			}
			if v.log != nil {
				v.log.Debug("tool found", "tool", req.Name, "path", path, "version", ts.Version)
			}
		}

		results = append(results, ts)
	}

	if len(missing) > 0 {
		return results, &MissingToolError{Missing: missing}
	}
	return results, nil
}

// FioTools returns the tools needed to run a fio sweep.
func FioTools(binary string) []ToolRequirement {
	if binary == "" {
		binary = "fio"
	}
	return []ToolRequirement{
		{Name: binary, Purpose: "flexible I/O tester (disk benchmark)", Required: true},
	}
}

// DiagnoseTools returns every tool virtperf can talk to (informational).
func DiagnoseTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: "fio", Purpose: "flexible I/O tester (disk benchmark)", Required: false},
		{Name: "netperf", Purpose: "network benchmark", Required: false},
	}
}

// getToolVersion returns the first line of "<tool> --version".
func getToolVersion(tool string) string {
	output, err := exec.Command(tool, "--version").Output()
	if err != nil {
		// netperf has no --version, it prints the version with -V
		output, err = exec.Command(tool, "-V").Output()
		if err != nil {
			return ""
		}
	}
	line := strings.SplitN(string(output), "\n", 2)[0]
	return strings.TrimSpace(line)
}
