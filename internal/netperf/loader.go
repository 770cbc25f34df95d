package netperf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	perferrors "virtperf/internal/errors"
	"virtperf/internal/fs"
	"virtperf/internal/logger"
)

// Recognized result directory entries
const (
	LogSuffix     = ".nplog.json"
	ArchiveSuffix = ".tar.gz"
)

// ExtractFunc unpacks archive into destDir on afs
type ExtractFunc func(ctx context.Context, afs afero.Fs, archive, destDir string) error

// Loader discovers and parses result logs in a directory
type Loader struct {
	afs     afero.Fs
	log     logger.Logger
	extract ExtractFunc
}

// NewLoader creates a Loader reading from afs
func NewLoader(afs afero.Fs, log logger.Logger) *Loader {
	return &Loader{afs: afs, log: log, extract: fs.ExtractTarGz}
}

// Load parses every *.nplog.json in resultPath and the log named after each
// *.tar.gz archive inside it. Symlinks to regular files count as files. A file
// that is not valid JSON is logged and skipped; only an unreadable directory
// or cancellation fail the load.
func (l *Loader) Load(ctx context.Context, resultPath string) ([]*Record, error) {
	entries, err := afero.ReadDir(l.afs, resultPath)
	if err != nil {
		return nil, perferrors.NewEnvError(perferrors.ErrCodeReadFailed,
			fmt.Sprintf("Cannot list result path %q", resultPath),
			"Check that --result_path exists and is readable.").WithCause(err)
	}

	var records []*Record
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		path := filepath.Join(resultPath, name)

		switch {
		case strings.HasSuffix(name, ArchiveSuffix) && fs.IsRegular(l.afs, path):
			rec, ok := l.loadArchive(ctx, path, name)
			if ok {
				records = append(records, rec)
			}
		case strings.HasSuffix(name, LogSuffix) && fs.IsRegular(l.afs, path):
			rec, ok := l.loadFile(path)
			if ok {
				records = append(records, rec)
			}
		default:
			l.log.Debug("Ignoring entry", "path", path)
		}
	}

	l.log.Debug("Result logs loaded", "path", resultPath, "records", len(records))
	return records, nil
}

// loadArchive extracts path into its own scratch directory and parses the log
// named after the archive. The scratch directory is removed before returning.
func (l *Loader) loadArchive(ctx context.Context, path, name string) (*Record, bool) {
	log := l.log.WithField("archive", path)

	scratch, cleanup, err := fs.ScratchDir(l.afs, "netperf-report-")
	if err != nil {
		log.Error("Cannot create scratch directory", "error", err)
		return nil, false
	}
	defer cleanup()

	if err := l.extract(ctx, l.afs, path, scratch); err != nil {
		log.Error("Skipping archive", "error", perferrors.BadArchive(path, err))
		return nil, false
	}

	inner := filepath.Join(scratch, strings.TrimSuffix(name, ArchiveSuffix)+LogSuffix)
	if !fs.IsRegular(l.afs, inner) {
		log.Warn("Archive holds no matching result log", "expected", filepath.Base(inner))
		return nil, false
	}
	return l.loadFile(inner)
}

func (l *Loader) loadFile(path string) (*Record, bool) {
	data, err := afero.ReadFile(l.afs, path)
	if err != nil {
		l.log.Error("Error while handling the json file", "file", path, "error", err)
		return nil, false
	}
	rec, err := ParseRecord(path, data)
	if err != nil {
		l.log.Error("Error while handling the json file", "file", path, "error", err)
		return nil, false
	}
	return rec, true
}
