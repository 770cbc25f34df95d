package sweep

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	perferrors "virtperf/internal/errors"
	"virtperf/internal/fs"
	"virtperf/internal/logger"
	"virtperf/internal/tools"
)

// maxOutput caps the tool output (in runes) kept for a failed case
const maxOutput = 2000

// CommandFunc runs name with args and returns its combined output
type CommandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// CaseResult records one fio invocation. The exit status is recorded only,
// fio results are never interpreted.
type CaseResult struct {
	Case        Case          `json:"case"`
	LogFile     string        `json:"log_file"`
	Args        []string      `json:"args"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
	DurationSec float64       `json:"duration_sec"`
	ExitCode    int           `json:"exit_code"`
	Error       string        `json:"error,omitempty"`
	LogSize     string        `json:"log_size,omitempty"`
}

// Runner executes a validated sweep
type Runner struct {
	cfg      *Config
	log      logger.Logger
	afs      afero.Fs
	binary   string
	dryRun   bool
	run      CommandFunc
	lookPath func(string) (string, error)
	now      func() time.Time
	sysInfo  func(ctx context.Context, logDir string) SystemInfo
}

// Option configures a Runner
type Option func(*Runner)

// WithFS sets the filesystem the log directory and manifest are written to
func WithFS(afs afero.Fs) Option {
	return func(r *Runner) { r.afs = afs }
}

// WithBinary sets the fio executable
func WithBinary(binary string) Option {
	return func(r *Runner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithDryRun makes fio parse its options without starting any I/O
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithCommandFunc replaces process execution
func WithCommandFunc(fn CommandFunc) Option {
	return func(r *Runner) { r.run = fn }
}

// WithLookPath replaces the PATH lookup used by the preflight check
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Runner) { r.lookPath = fn }
}

// WithClock replaces time.Now for log file names
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithSystemInfo replaces host detection for the manifest
func WithSystemInfo(fn func(ctx context.Context, logDir string) SystemInfo) Option {
	return func(r *Runner) { r.sysInfo = fn }
}

// NewRunner creates a sweep runner for cfg
func NewRunner(cfg *Config, log logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		log:      log,
		afs:      fs.FS,
		binary:   "fio",
		run:      execCommand,
		lookPath: exec.LookPath,
		now:      time.Now,
		sysInfo:  gatherSystemInfo,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks that fio is installed, creates the log directory and runs every
// case in order. A failing case is recorded and the sweep moves on; only a
// setup failure or cancellation returns an error.
func (r *Runner) Run(ctx context.Context) (*Manifest, error) {
	if err := r.preflight(); err != nil {
		return nil, err
	}

	logDir, err := fs.ExpandHome(r.cfg.LogPath)
	if err != nil {
		return nil, perferrors.NewConfigError(perferrors.ErrCodeInvalidPath,
			fmt.Sprintf("Cannot resolve log path %q", r.cfg.LogPath),
			"Use an absolute log_path.").WithCause(err)
	}
	if err := r.afs.MkdirAll(logDir, 0755); err != nil {
		return nil, perferrors.NewEnvError(perferrors.ErrCodeMkdirFailed,
			fmt.Sprintf("Cannot create log directory %q", logDir),
			"Check permissions on the parent directory or choose another log_path.").WithCause(err)
	}

	cases := Cases(r.cfg)
	manifest := &Manifest{
		Version:   "1.0",
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    r.dryRun,
		Config:    *r.cfg,
		LogDir:    logDir,
		System:    r.sysInfo(ctx, logDir),
	}

	r.log.Info("Starting fio sweep",
		"cases", len(cases),
		"rounds", r.cfg.Rounds,
		"log_dir", logDir,
		"dry_run", r.dryRun)

	var runErr error
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			r.log.Warn("Sweep interrupted", "completed", i, "total", len(cases))
			runErr = err
			break
		}
		manifest.Cases = append(manifest.Cases, r.runCase(ctx, logDir, i+1, len(cases), c))
	}

	manifest.FinishedAt = time.Now()
	manifest.TotalSec = manifest.FinishedAt.Sub(manifest.StartedAt).Seconds()

	if path, err := manifest.Save(r.afs, logDir); err != nil {
		r.log.Warn("Could not write sweep manifest", "error", err)
	} else {
		manifest.Path = path
		r.log.Debug("Sweep manifest written", "path", path)
	}

	return manifest, runErr
}

func (r *Runner) preflight() error {
	v := tools.NewValidator(r.log)
	v.LookPathFunc = r.lookPath
	v.VersionFunc = nil

	if _, err := v.ValidateTools(tools.FioTools(r.binary)); err != nil {
		var missing *tools.MissingToolError
		if errors.As(err, &missing) {
			return perferrors.ToolMissing(r.binary, missing.Missing[0].Purpose).WithCause(err)
		}
		return err
	}
	return nil
}

func (r *Runner) runCase(ctx context.Context, logDir string, n, total int, c Case) CaseResult {
	started := r.now()
	name := LogFileName(r.cfg, c, started)
	output := filepath.Join(logDir, name)

	args := BuildArgs(r.cfg, c, output)
	if r.dryRun {
		args = append(args, "--parse-only")
	}

	res := CaseResult{
		Case:      c,
		LogFile:   output,
		Args:      args,
		StartedAt: started,
	}

	caseLog := r.log.WithFields(map[string]interface{}{
		"round":   c.Round,
		"bs":      c.BS,
		"iodepth": c.IODepth,
		"rw":      c.RW,
	})
	op := caseLog.StartOperation(fmt.Sprintf("case %d/%d", n, total))
	op.Update("Test command", "cmd", CommandLine(r.binary, args))

	start := time.Now()
	out, err := r.run(ctx, r.binary, args...)
	res.Duration = time.Since(start)
	res.DurationSec = res.Duration.Seconds()

	if err != nil {
		res.ExitCode = exitCode(err)
		res.Error = strings.TrimSpace(fmt.Sprintf("%v: %s", err, truncateOutput(string(out))))
		op.Fail("fio exited with an error", "exit_code", res.ExitCode)
	} else {
		op.Complete("fio finished", "log", name)
	}

	if info, statErr := r.afs.Stat(output); statErr == nil {
		res.LogSize = humanizeBytes(info.Size())
	}

	return res
}

// truncateOutput keeps the first maxOutput runes of s
func truncateOutput(s string) string {
	r := []rune(s)
	if len(r) <= maxOutput {
		return s
	}
	return string(r[:maxOutput]) + "…[truncated]"
}

// exitCode extracts the process exit status, -1 when the process never ran
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// CommandLine renders binary and args for display, quoting arguments that
// contain whitespace or quotes.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, binary)
	for _, a := range args {
		if strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
