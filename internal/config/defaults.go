package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"virtperf/internal/validation"
)

const (
	// DefaultsFileName is the defaults document looked up in the working directory
	DefaultsFileName = "./virt_perf_scripts.yaml"

	// DefaultsSection is the top-level key holding the fio sweep defaults
	DefaultsSection = "FioTestRunner"
)

// LoadDefaults reads the YAML document at path and returns the mapping under
// section. Scalars keep the type the decoder produced (int, string, list).
// Callers treat any error as "no defaults".
func LoadDefaults(afs afero.Fs, path, section string) (validation.Params, error) {
	data, err := afero.ReadFile(afs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}

	raw, ok := doc[section]
	if !ok {
		return nil, fmt.Errorf("defaults file %s has no %q section", path, section)
	}
	values, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("section %q in %s is not a mapping", section, path)
	}

	params := make(validation.Params, len(values))
	for k, v := range values {
		params[k] = v
	}
	return params, nil
}
