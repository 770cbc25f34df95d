// Package cmd - version command showing build and benchmark tool info
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"virtperf/internal/logger"
	"virtperf/internal/tools"
)

var versionOutputFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and benchmark tool information",
	Long: `Display version information including:

  - virtperf version, build time, and git commit
  - Go runtime version
  - Operating system and architecture
  - Installed benchmark tool versions (fio, netperf)

Examples:
  # Show version info
  virtperf version

  # JSON output for scripts
  virtperf version --format json

  # Short version only
  virtperf version --format short`,
	RunE: runVersionCmd,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVar(&versionOutputFormat, "format", "table", "Output format (table, json, short)")
}

type versionInfo struct {
	Version   string            `json:"version"`
	BuildTime string            `json:"build_time"`
	GitCommit string            `json:"git_commit"`
	GoVersion string            `json:"go_version"`
	OS        string            `json:"os"`
	Arch      string            `json:"arch"`
	NumCPU    int               `json:"num_cpu"`
	Tools     map[string]string `json:"tools"`
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	switch versionOutputFormat {
	case "short":
		fmt.Fprintf(logger.Stdout, "virtperf %s\n", cfg.Version)
		return nil
	case "json":
		enc := json.NewEncoder(logger.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(collectVersionInfo(tools.NewValidator(log)))
	case "table":
		outputTable(logger.Stdout, collectVersionInfo(tools.NewValidator(log)))
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected table, json or short)", versionOutputFormat)
	}
}

// collectVersionInfo reports the tools virtperf drives. Tools missing from
// PATH are left out of Tools.
func collectVersionInfo(v *tools.Validator) versionInfo {
	info := versionInfo{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		GitCommit: cfg.GitCommit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		Tools:     make(map[string]string),
	}

	// DiagnoseTools are all optional, ValidateTools never fails for them
	statuses, _ := v.ValidateTools(tools.DiagnoseTools())
	for _, ts := range statuses {
		if ts.Available {
			info.Tools[ts.Name] = ts.Version
		}
	}
	return info
}

func outputTable(w io.Writer, info versionInfo) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔═══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║                    virtperf Version Info                      ║")
	fmt.Fprintln(w, "╠═══════════════════════════════════════════════════════════════╣")
	fmt.Fprintf(w, "║  %-20s %-40s ║\n", "Version:", info.Version)
	fmt.Fprintf(w, "║  %-20s %-40s ║\n", "Build Time:", info.BuildTime)

	commit := info.GitCommit
	if len(commit) > 40 {
		commit = commit[:40]
	}
	fmt.Fprintf(w, "║  %-20s %-40s ║\n", "Git Commit:", commit)
	fmt.Fprintln(w, "╠═══════════════════════════════════════════════════════════════╣")
	fmt.Fprintf(w, "║  %-20s %-40s ║\n", "Go Version:", info.GoVersion)
	fmt.Fprintf(w, "║  %-20s %-40s ║\n", "OS/Arch:", fmt.Sprintf("%s/%s", info.OS, info.Arch))
	fmt.Fprintf(w, "║  %-20s %-40d ║\n", "CPU Cores:", info.NumCPU)
	fmt.Fprintln(w, "╠═══════════════════════════════════════════════════════════════╣")
	fmt.Fprintln(w, "║  Benchmark Tools                                              ║")
	fmt.Fprintln(w, "╟───────────────────────────────────────────────────────────────╢")

	for _, req := range tools.DiagnoseTools() {
		version, ok := info.Tools[req.Name]
		switch {
		case !ok:
			version = "(not installed)"
		case version == "":
			version = "(unknown version)"
		}
		if len(version) > 41 {
			version = version[:41]
		}
		fmt.Fprintf(w, "║    %-18s %-41s ║\n", req.Name+":", version)
	}

	fmt.Fprintln(w, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)
}
