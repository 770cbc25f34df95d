package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"virtperf/internal/config"
	perferrors "virtperf/internal/errors"
	"virtperf/internal/exitcode"
	"virtperf/internal/fs"
	"virtperf/internal/logger"
	"virtperf/internal/sweep"
	"virtperf/internal/validation"
)

var (
	fioBackend     string
	fioDriver      string
	fioFS          string
	fioRounds      int
	fioFilename    string
	fioRuntime     string
	fioDirect      int
	fioNumJobs     int
	fioRWList      string
	fioBSList      string
	fioIODepthList string
	fioLogPath     string

	fioDefaults string
	fioBinary   string
	fioDryRun   bool
)

var fioCmd = &cobra.Command{
	Use:   "fio",
	Short: "Storage benchmarks driven by fio",
}

var fioRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run fio across every combination of block size, iodepth and rw mode",
	Long: `Run fio once per case of the sweep

  rounds x bs_list x iodepth_list x rw_list

with rw varying fastest. Each case writes one log under --log_path named
after the backend, driver, filesystem and case parameters.

Parameters not given on the command line are read from the FioTestRunner
section of the defaults file (./virt_perf_scripts.yaml).

Examples:
  # Everything from the defaults file
  virtperf fio run

  # Override the sweep dimensions
  virtperf fio run --rounds 3 --bs_list 4k,64k --iodepth_list 1,32 --rw_list read,randwrite

  # Check the generated fio options without running any I/O
  virtperf fio run --dry-run`,
	RunE: runFioRun,
}

func init() {
	rootCmd.AddCommand(fioCmd)
	fioCmd.AddCommand(fioRunCmd)
	addFioRunFlags(fioRunCmd)
}

func addFioRunFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&fioBackend, sweep.ParamBackend, "", "Hypervisor backend under test (e.g. kvm)")
	f.StringVar(&fioDriver, sweep.ParamDriver, "", "Guest disk driver (e.g. virtio_blk)")
	f.StringVar(&fioFS, sweep.ParamFS, "", "Filesystem of the test target (e.g. xfs, raw)")
	f.IntVar(&fioRounds, sweep.ParamRounds, 0, fmt.Sprintf("Number of rounds (%d-%d)", sweep.MinRounds, sweep.MaxRounds))
	f.StringVar(&fioFilename, sweep.ParamFilename, "", "File or device fio runs against")
	f.StringVar(&fioRuntime, sweep.ParamRuntime, "", "Runtime of each case (fio syntax, e.g. 1m)")
	f.IntVar(&fioDirect, sweep.ParamDirect, 0, "Use O_DIRECT I/O (0 or 1)")
	f.IntVar(&fioNumJobs, sweep.ParamNumJobs, 0, fmt.Sprintf("Number of fio jobs (%d-%d)", sweep.MinNumJobs, sweep.MaxNumJobs))
	f.StringVar(&fioRWList, sweep.ParamRWList, "", "Comma separated rw modes (e.g. read,randwrite)")
	f.StringVar(&fioBSList, sweep.ParamBSList, "", "Comma separated block sizes (e.g. 4k,1024k)")
	f.StringVar(&fioIODepthList, sweep.ParamIODepthList, "", "Comma separated iodepths (e.g. 1,8,64)")
	f.StringVar(&fioLogPath, sweep.ParamLogPath, "", "Directory the fio logs are written to")

	f.StringVar(&fioDefaults, "defaults", config.DefaultsFileName, "YAML defaults file")
	f.StringVar(&fioBinary, "fio-binary", "fio", "fio executable")
	f.BoolVar(&fioDryRun, "dry-run", false, "Pass --parse-only to fio instead of running I/O")
}

func runFioRun(cmd *cobra.Command, args []string) error {
	cli, err := fioCLIParams(cmd)
	if err != nil {
		return err
	}

	defaultsPath := fioDefaults
	if !cmd.Flags().Changed("defaults") && cfg.DefaultsPath != "" {
		defaultsPath = cfg.DefaultsPath
	}
	defaults, err := config.LoadDefaults(fs.FS, defaultsPath, config.DefaultsSection)
	if err != nil {
		log.Warn("Defaults file not used", "path", defaultsPath, "error", err)
	}

	sweepCfg, err := sweep.Validate(sweep.Merge(defaults, cli))
	if err != nil {
		return perferrors.InvalidConfig(err)
	}

	runner := sweep.NewRunner(sweepCfg, log,
		sweep.WithBinary(fioBinary),
		sweep.WithDryRun(fioDryRun))

	manifest, err := runner.Run(cmd.Context())
	if manifest != nil {
		manifest.PrintSummary(logger.Stdout)
	}
	return err
}

// fioCLIParams collects the sweep parameters given on the command line.
// Flags left unset are absent so the defaults file can fill them in.
func fioCLIParams(cmd *cobra.Command) (validation.Params, error) {
	flags := cmd.Flags()
	p := validation.Params{}

	strs := map[string]string{
		sweep.ParamBackend:  fioBackend,
		sweep.ParamDriver:   fioDriver,
		sweep.ParamFS:       fioFS,
		sweep.ParamFilename: fioFilename,
		sweep.ParamRuntime:  fioRuntime,
		sweep.ParamLogPath:  fioLogPath,
	}
	for name, v := range strs {
		if flags.Changed(name) {
			p[name] = v
		}
	}

	lists := map[string]string{
		sweep.ParamRWList:      fioRWList,
		sweep.ParamBSList:      fioBSList,
		sweep.ParamIODepthList: fioIODepthList,
	}
	for name, v := range lists {
		if flags.Changed(name) {
			p[name] = splitList(v)
		}
	}

	if flags.Changed(sweep.ParamRounds) {
		if fioRounds < sweep.MinRounds || fioRounds > sweep.MaxRounds {
			return nil, exitcode.Usage(fmt.Errorf("invalid value %d for --%s: must be between %d and %d",
				fioRounds, sweep.ParamRounds, sweep.MinRounds, sweep.MaxRounds))
		}
		p[sweep.ParamRounds] = fioRounds
	}
	if flags.Changed(sweep.ParamDirect) {
		if fioDirect != 0 && fioDirect != 1 {
			return nil, exitcode.Usage(fmt.Errorf("invalid value %d for --%s: must be 0 or 1",
				fioDirect, sweep.ParamDirect))
		}
		p[sweep.ParamDirect] = fioDirect
	}
	if flags.Changed(sweep.ParamNumJobs) {
		if fioNumJobs < sweep.MinNumJobs || fioNumJobs > sweep.MaxNumJobs {
			return nil, exitcode.Usage(fmt.Errorf("invalid value %d for --%s: must be between %d and %d",
				fioNumJobs, sweep.ParamNumJobs, sweep.MinNumJobs, sweep.MaxNumJobs))
		}
		p[sweep.ParamNumJobs] = fioNumJobs
	}

	return p, nil
}

// splitList turns "4k, 64k" into []string{"4k", "64k"}. Empty items are
// kept so validation can reject them.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
