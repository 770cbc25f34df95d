package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/afero"
)

// Manifest describes one sweep: its configuration, every case and the host
// it ran on. It is saved next to the fio logs.
type Manifest struct {
	Version    string       `json:"version"`
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	TotalSec   float64      `json:"total_sec"`
	DryRun     bool         `json:"dry_run"`
	Config     Config       `json:"config"`
	LogDir     string       `json:"log_dir"`
	System     SystemInfo   `json:"system"`
	Cases      []CaseResult `json:"cases"`

	// Path is where Save wrote the manifest
	Path string `json:"-"`
}

// SystemInfo captures the host environment
type SystemInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Hostname   string `json:"hostname"`
	CPUModel   string `json:"cpu_model,omitempty"`
	CPUs       int    `json:"cpus"`
	TotalRAM   string `json:"total_ram,omitempty"`
	LogDirFree string `json:"log_dir_free,omitempty"`
	GoVersion  string `json:"go_version"`
}

func gatherSystemInfo(ctx context.Context, logDir string) SystemInfo {
	hostname, _ := os.Hostname()
	info := SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Hostname:  hostname,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}

	if cpuInfo, err := cpu.InfoWithContext(ctx); err == nil && len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.TotalRAM = humanize.IBytes(vm.Total)
	}
	if usage, err := disk.UsageWithContext(ctx, logDir); err == nil {
		info.LogDirFree = humanize.IBytes(usage.Free)
	}
	return info
}

func humanizeBytes(n int64) string {
	if n < 0 {
		return ""
	}
	return humanize.IBytes(uint64(n))
}

// FileName is the manifest file name inside the log directory
func (m *Manifest) FileName() string {
	return "sweep_" + m.RunID + ".json"
}

// Save writes the manifest as indented JSON into dir
func (m *Manifest) Save(afs afero.Fs, dir string) (string, error) {
	path := filepath.Join(dir, m.FileName())
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	return path, afero.WriteFile(afs, path, data, 0644)
}

// Failed returns the cases that exited with an error
func (m *Manifest) Failed() []CaseResult {
	var failed []CaseResult
	for _, c := range m.Cases {
		if c.Error != "" {
			failed = append(failed, c)
		}
	}
	return failed
}

// PrintSummary writes a compact summary of the sweep to w
func (m *Manifest) PrintSummary(w io.Writer) {
	var sb strings.Builder
	line := strings.Repeat("═", 62)
	sb.WriteString("\n╔" + line + "╗\n")
	sb.WriteString(fmt.Sprintf("║  %-60s║\n", "FIO SWEEP"))
	sb.WriteString("╠" + line + "╣\n")
	sb.WriteString(fmt.Sprintf("║  %-12s%-48s║\n", "Run ID:", m.RunID))
	sb.WriteString(fmt.Sprintf("║  %-12s%-48s║\n", "Backend:", m.Config.Backend))
	sb.WriteString(fmt.Sprintf("║  %-12s%-48s║\n", "Driver:", m.Config.Driver))
	sb.WriteString(fmt.Sprintf("║  %-12s%-48s║\n", "FS:", m.Config.FS))
	sb.WriteString(fmt.Sprintf("║  %-12s%-48d║\n", "Cases:", len(m.Cases)))
	sb.WriteString(fmt.Sprintf("║  %-12s%-48d║\n", "Failed:", len(m.Failed())))
	sb.WriteString(fmt.Sprintf("║  %-12s%-48s║\n", "Log dir:", truncate(m.LogDir, 48)))
	sb.WriteString(fmt.Sprintf("║  %-12s%-48s║\n", "Elapsed:", fmt.Sprintf("%.1fs", m.TotalSec)))
	sb.WriteString("╚" + line + "╝\n")
	fmt.Fprint(w, sb.String())
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
