package sweep

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtperf/internal/validation"
)

func validParams() validation.Params {
	return validation.Params{
		ParamBackend:     "NVME",
		ParamDriver:      "virtio_blk",
		ParamFS:          "RAW",
		ParamRounds:      2,
		ParamFilename:    "/dev/vdb",
		ParamRuntime:     "1m",
		ParamDirect:      1,
		ParamNumJobs:     16,
		ParamRWList:      []string{"read", "randrw"},
		ParamBSList:      []interface{}{"4k", "16k"},
		ParamIODepthList: []interface{}{1, 8},
		ParamLogPath:     "/logs",
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg, err := Validate(validParams())
	require.NoError(t, err)

	assert.Equal(t, "NVME", cfg.Backend)
	assert.Equal(t, "virtio_blk", cfg.Driver)
	assert.Equal(t, "RAW", cfg.FS)
	assert.Equal(t, 2, cfg.Rounds)
	assert.Equal(t, 1, cfg.Direct)
	assert.Equal(t, 16, cfg.NumJobs)
	assert.Equal(t, []string{"read", "randrw"}, cfg.RWList)
	assert.Equal(t, []string{"4k", "16k"}, cfg.BSList)
	assert.Equal(t, []string{"1", "8"}, cfg.IODepthList)
	assert.Equal(t, "/logs", cfg.LogPath)
}

func TestValidate_SingleFailure(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{"missing backend", ParamBackend, nil},
		{"backend not string", ParamBackend, 7},
		{"rounds zero", ParamRounds, 0},
		{"rounds too large", ParamRounds, 1001},
		{"rounds string", ParamRounds, "2"},
		{"direct two", ParamDirect, 2},
		{"direct string", ParamDirect, "1"},
		{"numjobs zero", ParamNumJobs, 0},
		{"numjobs too large", ParamNumJobs, 65536},
		{"rw_list scalar", ParamRWList, "read"},
		{"bs_list empty", ParamBSList, []string{}},
		{"log_path not string", ParamLogPath, []string{"/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			if tt.value == nil {
				delete(p, tt.field)
			} else {
				p[tt.field] = tt.value
			}

			cfg, err := Validate(p)
			require.Error(t, err)
			assert.Nil(t, cfg)

			var merr *multierror.Error
			require.True(t, errors.As(err, &merr))
			require.Len(t, merr.Errors, 1)

			var verr *validation.ValidationError
			require.True(t, errors.As(merr.Errors[0], &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	p := validParams()
	delete(p, ParamDriver)
	p[ParamRounds] = -1
	p[ParamIODepthList] = []string{}

	_, err := Validate(p)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 3)

	var fields []string
	for _, e := range merr.Errors {
		var verr *validation.ValidationError
		require.True(t, errors.As(e, &verr))
		fields = append(fields, verr.Field)
	}
	assert.Equal(t, []string{ParamDriver, ParamRounds, ParamIODepthList}, fields)
}

func TestValidate_EmptyParams(t *testing.T) {
	_, err := Validate(validation.Params{})
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 12)
}

func TestMerge(t *testing.T) {
	defaults := validation.Params{ParamBackend: "HDD", ParamRounds: 5, ParamFS: "XFS"}
	cli := validation.Params{ParamBackend: "NVME", ParamDriver: "scsi"}

	merged := Merge(defaults, cli)

	assert.Equal(t, "NVME", merged[ParamBackend], "command line wins")
	assert.Equal(t, 5, merged[ParamRounds])
	assert.Equal(t, "XFS", merged[ParamFS])
	assert.Equal(t, "scsi", merged[ParamDriver])
	assert.Equal(t, "HDD", defaults[ParamBackend], "inputs are not modified")
	assert.Len(t, cli, 2)
}

func TestMerge_NilDefaults(t *testing.T) {
	merged := Merge(nil, validation.Params{ParamRounds: 1})
	assert.Equal(t, validation.Params{ParamRounds: 1}, merged)
}
