package netperf

import (
	"archive/tar"
	"bytes"
	"fmt"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
)

func streamLog(driver, name string, msize int, throughput, latency float64, unit string) string {
	return fmt.Sprintf(`{
  "metadata": {
    "DRIVER": %q,
    "ROUNDS": 1,
    "NAME": %q,
    "M_SIZE": %d,
    "RR_SIZE": 1,
    "SERIES_META": {
      %q: {
        "THROUGHPUT_UNITS": %q,
        "THROUGHPUT": %v,
        "MEAN_LATENCY": %v
      }
    }
  },
  "results": {}
}`, driver, name, msize, name, unit, throughput, latency)
}

func rrLog(driver, name string, rrsize int, transrate, latency float64) string {
	return fmt.Sprintf(`{
  "metadata": {
    "DRIVER": %q,
    "ROUNDS": 1,
    "NAME": %q,
    "M_SIZE": 1024,
    "RR_SIZE": %d,
    "SERIES_META": {
      %q: {
        "TRANSACTION_RATE": %v,
        "MEAN_LATENCY": %v
      }
    }
  }
}`, driver, name, rrsize, name, transrate, latency)
}

func mustRecord(t *testing.T, content string) *Record {
	t.Helper()
	rec, err := ParseRecord("/results/test.nplog.json", []byte(content))
	require.NoError(t, err)
	return rec
}

// tarGz packs files (name -> content) into an in-memory tar.gz
func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}
