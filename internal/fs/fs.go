// Package fs provides filesystem abstraction using spf13/afero for testability.
// It allows swapping the real filesystem with an in-memory mock for unit tests.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FS is the filesystem the commands hand to the pipelines.
// For testing, use SetFS(afero.NewMemMapFs()) to use an in-memory filesystem.
var FS afero.Fs = afero.NewOsFs()

// SetFS sets the global filesystem (useful for testing)
func SetFS(fs afero.Fs) {
	FS = fs
}

// ResetFS resets to the real OS filesystem
func ResetFS() {
	FS = afero.NewOsFs()
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ScratchDir creates a unique temporary directory on afs. The returned
// cleanup removes it and is safe to call more than once.
func ScratchDir(afs afero.Fs, prefix string) (string, func(), error) {
	dir, err := afero.TempDir(afs, "", prefix)
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	done := false
	cleanup := func() {
		if done {
			return
		}
		done = true
		_ = afs.RemoveAll(dir)
	}
	return dir, cleanup, nil
}

// IsRegular reports whether path exists on afs and is a regular file
func IsRegular(afs afero.Fs, path string) bool {
	info, err := afs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// --- Testing Helpers ---

// WithMemFs executes a function with an in-memory filesystem, then restores the original
func WithMemFs(fn func(fs afero.Fs)) {
	original := FS
	memFs := afero.NewMemMapFs()
	FS = memFs
	defer func() { FS = original }()
	fn(memFs)
}

// SetupTestDir creates a test directory structure in-memory
func SetupTestDir(files map[string]string) afero.Fs {
	memFs := afero.NewMemMapFs()
	for path, content := range files {
		dir := filepath.Dir(path)
		if dir != "." && dir != "/" {
			_ = memFs.MkdirAll(dir, 0755)
		}
		_ = afero.WriteFile(memFs, path, []byte(content), 0644)
	}
	return memFs
}
