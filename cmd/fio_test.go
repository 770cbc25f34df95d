package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"virtperf/internal/config"
	perferrors "virtperf/internal/errors"
	"virtperf/internal/exitcode"
	"virtperf/internal/logger"
	"virtperf/internal/sweep"
)

func newFioRunCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	addFioRunFlags(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("parse flags %v: %v", args, err)
	}
	c.SetContext(context.Background())
	return c
}

func withGlobals(t *testing.T) {
	t.Helper()
	origCfg, origLog := cfg, log
	cfg = config.New()
	log = logger.NewNullLogger()
	t.Cleanup(func() { cfg, log = origCfg, origLog })
}

func TestFioCLIParams_OnlyChangedFlags(t *testing.T) {
	p, err := fioCLIParams(newFioRunCommand(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p) != 0 {
		t.Errorf("expected no params without flags, got %v", p)
	}
}

func TestFioCLIParams_Values(t *testing.T) {
	c := newFioRunCommand(t,
		"--backend", "kvm",
		"--driver", "virtio_blk",
		"--fs", "xfs",
		"--rounds", "3",
		"--filename", "/mnt/test file",
		"--runtime", "1m",
		"--direct", "1",
		"--numjobs", "4",
		"--rw_list", "read, randwrite",
		"--bs_list", "4k,64k",
		"--iodepth_list", "1,32",
		"--log_path", "/tmp/logs",
	)

	p, err := fioCLIParams(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]interface{}{
		sweep.ParamBackend:     "kvm",
		sweep.ParamDriver:      "virtio_blk",
		sweep.ParamFS:          "xfs",
		sweep.ParamRounds:      3,
		sweep.ParamFilename:    "/mnt/test file",
		sweep.ParamRuntime:     "1m",
		sweep.ParamDirect:      1,
		sweep.ParamNumJobs:     4,
		sweep.ParamRWList:      []string{"read", "randwrite"},
		sweep.ParamBSList:      []string{"4k", "64k"},
		sweep.ParamIODepthList: []string{"1", "32"},
		sweep.ParamLogPath:     "/tmp/logs",
	}
	for k, v := range want {
		if !reflect.DeepEqual(p[k], v) {
			t.Errorf("params[%s] = %#v, want %#v", k, p[k], v)
		}
	}

	sc, err := sweep.Validate(p)
	if err != nil {
		t.Fatalf("flags alone should form a valid sweep: %v", err)
	}
	if got := len(sweep.Cases(sc)); got != 3*2*2*2 {
		t.Errorf("expected 24 cases, got %d", got)
	}
}

func TestFioCLIParams_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"rounds zero", []string{"--rounds", "0"}},
		{"rounds too large", []string{"--rounds", "1001"}},
		{"direct two", []string{"--direct", "2"}},
		{"direct negative", []string{"--direct", "-1"}},
		{"numjobs zero", []string{"--numjobs", "0"}},
		{"numjobs too large", []string{"--numjobs", "65536"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fioCLIParams(newFioRunCommand(t, tt.args...))
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := exitcode.ExitWithCode(err); code != exitcode.UsageError {
				t.Errorf("expected exit code %d, got %d", exitcode.UsageError, code)
			}
		})
	}
}

func TestFioCLIParams_Boundaries(t *testing.T) {
	c := newFioRunCommand(t, "--rounds", "1000", "--numjobs", "65535", "--direct", "0")
	p, err := fioCLIParams(c)
	if err != nil {
		t.Fatalf("boundary values must be accepted: %v", err)
	}
	if p[sweep.ParamRounds] != 1000 || p[sweep.ParamNumJobs] != 65535 || p[sweep.ParamDirect] != 0 {
		t.Errorf("unexpected params: %v", p)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" 4k ,64k,")
	want := []string{"4k", "64k", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %#v, want %#v", got, want)
	}
}

func TestRunFioRun_InvalidConfig(t *testing.T) {
	withGlobals(t)
	logDir := filepath.Join(t.TempDir(), "logs")

	c := newFioRunCommand(t,
		"--defaults", filepath.Join(t.TempDir(), "missing.yaml"),
		"--rounds", "2",
		"--log_path", logDir,
	)

	err := runFioRun(c, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if code := perferrors.GetCode(err); code != perferrors.ErrCodeInvalidConfig {
		t.Errorf("expected %s, got %s", perferrors.ErrCodeInvalidConfig, code)
	}
	if code := exitcode.ExitWithCode(err); code != exitcode.General {
		t.Errorf("expected exit code %d, got %d", exitcode.General, code)
	}
	if _, statErr := os.Stat(logDir); !os.IsNotExist(statErr) {
		t.Errorf("log directory must not be created on validation failure")
	}
}

const defaultsWithoutRuntime = `FioTestRunner:
  backend: NVME
  driver: virtio_blk
  fs: RAW
  rounds: 1
  filename: /dev/vdb
  direct: 1
  numjobs: 1
  rw_list: [read]
  bs_list: [4k]
  iodepth_list: [1]
  log_path: %s
`

func TestRunFioRun_ExitCodes(t *testing.T) {
	withGlobals(t)
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	defaults := filepath.Join(dir, "virt_perf_scripts.yaml")
	if err := os.WriteFile(defaults, []byte(fmt.Sprintf(defaultsWithoutRuntime, logDir)), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"rounds out of range", []string{"--rounds", "0"}, exitcode.UsageError},
		{"direct out of range", []string{"--direct", "3"}, exitcode.UsageError},
		{"numjobs out of range", []string{"--numjobs", "70000"}, exitcode.UsageError},
		{"field missing from defaults", nil, exitcode.General},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--defaults", defaults}, tt.args...)
			err := runFioRun(newFioRunCommand(t, args...), nil)
			if got := exitcode.ExitWithCode(err); got != tt.want {
				t.Errorf("exit code = %d, want %d (err: %v)", got, tt.want, err)
			}
			if _, statErr := os.Stat(logDir); !os.IsNotExist(statErr) {
				t.Error("no log directory may be created before validation passes")
			}
			if tt.want == exitcode.General {
				msg := err.Error()
				if !strings.Contains(msg, "params[runtime]") || strings.Contains(msg, "params[backend]") {
					t.Errorf("only runtime should be reported missing: %s", msg)
				}
			}
		})
	}
}
