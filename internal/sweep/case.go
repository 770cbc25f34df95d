package sweep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

// Fixed fio job options
const (
	JobSize       = "512M"
	IOEngine      = "libaio"
	OutputFormat  = "normal,json+"
	LogFileSuffix = ".fiolog"
)

// Case is one point of the sweep
type Case struct {
	Round   int    `json:"round"`
	BS      string `json:"bs"`
	IODepth string `json:"iodepth"`
	RW      string `json:"rw"`
}

// Cases enumerates the sweep in the order round, bs, iodepth, rw with rw
// varying fastest.
func Cases(cfg *Config) []Case {
	cases := make([]Case, 0, cfg.Rounds*len(cfg.BSList)*len(cfg.IODepthList)*len(cfg.RWList))
	for round := 1; round <= cfg.Rounds; round++ {
		for _, bs := range cfg.BSList {
			for _, iodepth := range cfg.IODepthList {
				for _, rw := range cfg.RWList {
					cases = append(cases, Case{Round: round, BS: bs, IODepth: iodepth, RW: rw})
				}
			}
		}
	}
	return cases
}

// LogFileName names the log of c started at t:
// fio_<backend>_<driver>_<fs>_<rw>_<bs>_<iodepth>_<numjobs>_<round>_<YYYYmmddHHMMSS>.fiolog
func LogFileName(cfg *Config, c Case, t time.Time) string {
	return fmt.Sprintf("fio_%s_%s_%s_%s_%s_%s_%d_%d_%s%s",
		cfg.Backend, cfg.Driver, cfg.FS, c.RW, c.BS, c.IODepth,
		cfg.NumJobs, c.Round, t.Format("20060102150405"), LogFileSuffix)
}

// description is the metadata carried to the report side through
// fio --description. Field order is the key order in the output.
type description struct {
	Backend string `json:"backend"`
	Driver  string `json:"driver"`
	Format  string `json:"format"`
	Round   int    `json:"round"`
}

// Description encodes the case metadata passed to fio as a JSON object
func Description(cfg *Config, c Case) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of strings and an int cannot fail
	_ = enc.Encode(description{
		Backend: cfg.Backend,
		Driver:  cfg.Driver,
		Format:  cfg.FS,
		Round:   c.Round,
	})
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// BuildArgs returns the fio argument vector for c writing to output. Each
// value is a single element, nothing is interpreted by a shell.
func BuildArgs(cfg *Config, c Case, output string) []string {
	return []string{
		"--name=" + filepath.Base(output),
		"--filename=" + cfg.Filename,
		"--size=" + JobSize,
		"--direct=" + strconv.Itoa(cfg.Direct),
		"--rw=" + c.RW,
		"--bs=" + c.BS,
		"--ioengine=" + IOEngine,
		"--iodepth=" + c.IODepth,
		"--numjobs=" + strconv.Itoa(cfg.NumJobs),
		"--time_based",
		"--runtime=" + cfg.Runtime,
		"--group_reporting",
		"--description=" + Description(cfg, c),
		"--output-format=" + OutputFormat,
		"--output=" + output,
	}
}
