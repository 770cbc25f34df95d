package fs

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/spf13/afero"
)

// maxEntrySize caps a single extracted file. Benchmark logs are a few MB at most.
const maxEntrySize = 1 << 30

// ExtractTarGz extracts a tar.gz archive from afs into destDir on the same
// filesystem. Only directories and regular files are materialized; links and
// device nodes are skipped. Entries escaping destDir abort the extraction.
func ExtractTarGz(ctx context.Context, afs afero.Fs, archivePath, destDir string) error {
	file, err := afs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer file.Close()

	gzReader, err := pgzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("cannot create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	cleanDest := filepath.Clean(destDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading tar: %w", err)
		}

		targetPath := filepath.Join(cleanDest, header.Name)
		if targetPath != cleanDest && !strings.HasPrefix(targetPath, cleanDest+string(os.PathSeparator)) {
			return fmt.Errorf("path traversal detected: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := afs.MkdirAll(targetPath, 0700); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", targetPath, err)
			}

		case tar.TypeReg:
			if header.Size > maxEntrySize {
				return fmt.Errorf("archive entry %s too large (%d bytes)", header.Name, header.Size)
			}
			if err := afs.MkdirAll(filepath.Dir(targetPath), 0700); err != nil {
				return fmt.Errorf("cannot create parent directory: %w", err)
			}

			outFile, err := afs.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			if err != nil {
				return fmt.Errorf("cannot create file %s: %w", targetPath, err)
			}
			_, err = io.Copy(outFile, io.LimitReader(tarReader, maxEntrySize))
			closeErr := outFile.Close()
			if err != nil {
				return fmt.Errorf("error writing %s: %w", targetPath, err)
			}
			if closeErr != nil {
				return fmt.Errorf("error closing %s: %w", targetPath, closeErr)
			}

		default:
			continue
		}
	}
}
