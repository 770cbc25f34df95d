// Package sweep runs fio across the Cartesian product of a parameter sweep
// and saves one structured log per case.
package sweep

import (
	"github.com/hashicorp/go-multierror"

	"virtperf/internal/validation"
)

// Parameter names shared by the defaults file and the command line
const (
	ParamBackend     = "backend"
	ParamDriver      = "driver"
	ParamFS          = "fs"
	ParamRounds      = "rounds"
	ParamFilename    = "filename"
	ParamRuntime     = "runtime"
	ParamDirect      = "direct"
	ParamNumJobs     = "numjobs"
	ParamRWList      = "rw_list"
	ParamBSList      = "bs_list"
	ParamIODepthList = "iodepth_list"
	ParamLogPath     = "log_path"
)

// Limits enforced on both the defaults file and the command line
const (
	MinRounds  = 1
	MaxRounds  = 1000
	MinNumJobs = 1
	MaxNumJobs = 65535
)

// Config is a validated sweep configuration. It is never modified after
// Validate returns it.
type Config struct {
	Backend     string   `json:"backend"`
	Driver      string   `json:"driver"`
	FS          string   `json:"fs"`
	Rounds      int      `json:"rounds"`
	Filename    string   `json:"filename"`
	Runtime     string   `json:"runtime"`
	Direct      int      `json:"direct"`
	NumJobs     int      `json:"numjobs"`
	RWList      []string `json:"rw_list"`
	BSList      []string `json:"bs_list"`
	IODepthList []string `json:"iodepth_list"`
	LogPath     string   `json:"log_path"`
}

// Merge overlays cli on top of defaults. Neither input is modified.
func Merge(defaults, cli validation.Params) validation.Params {
	merged := make(validation.Params, len(defaults)+len(cli))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range cli {
		merged[k] = v
	}
	return merged
}

// Validate checks every field of p in one pass. All failures are returned
// together as a *multierror.Error of *validation.ValidationError.
func Validate(p validation.Params) (*Config, error) {
	var result *multierror.Error
	cfg := &Config{}

	str := func(field string, dst *string) {
		v, err := validation.RequireString(p, field)
		if err != nil {
			result = multierror.Append(result, err)
			return
		}
		*dst = v
	}
	list := func(field string, dst *[]string) {
		v, err := validation.RequireList(p, field)
		if err != nil {
			result = multierror.Append(result, err)
			return
		}
		*dst = v
	}

	str(ParamBackend, &cfg.Backend)
	str(ParamDriver, &cfg.Driver)
	str(ParamFS, &cfg.FS)

	if n, err := validation.RequireIntRange(p, ParamRounds, MinRounds, MaxRounds); err != nil {
		result = multierror.Append(result, err)
	} else {
		cfg.Rounds = n
	}

	str(ParamFilename, &cfg.Filename)
	str(ParamRuntime, &cfg.Runtime)

	if n, err := validation.RequireIntChoice(p, ParamDirect, 0, 1); err != nil {
		result = multierror.Append(result, err)
	} else {
		cfg.Direct = n
	}

	if n, err := validation.RequireIntRange(p, ParamNumJobs, MinNumJobs, MaxNumJobs); err != nil {
		result = multierror.Append(result, err)
	} else {
		cfg.NumJobs = n
	}

	list(ParamRWList, &cfg.RWList)
	list(ParamBSList, &cfg.BSList)
	list(ParamIODepthList, &cfg.IODepthList)
	str(ParamLogPath, &cfg.LogPath)

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}
