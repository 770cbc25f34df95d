package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug level", "debug", "text"},
		{"info level", "info", "text"},
		{"warn level", "warn", "text"},
		{"error level", "error", "text"},
		{"json format", "info", "json"},
		{"default level", "unknown", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, tt.format)
			if log == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"INFO", logrus.InfoLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerWritesFields(t *testing.T) {
	DisableColors()
	var buf bytes.Buffer
	log := NewWithWriter("info", "text", &buf)

	log.WithField("case", "3/8").Info("running fio", "rw", "randread")

	out := buf.String()
	for _, want := range []string{"running fio", "case=3/8", "rw=randread"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", "text", &buf)

	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn level, got %q", buf.String())
	}

	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be written")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)
	log.Info("report written", "path", "/tmp/r.csv")

	out := buf.String()
	if !strings.Contains(out, `"path":"/tmp/r.csv"`) {
		t.Errorf("json output missing path field: %s", out)
	}
}

func TestNewSilentLogger(t *testing.T) {
	log := NewSilent()
	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")
}

func TestOperationLogger(t *testing.T) {
	DisableColors()
	var buf bytes.Buffer
	log := NewWithWriter("info", "text", &buf)

	op := log.StartOperation("sweep")
	op.Update("case 1")
	time.Sleep(5 * time.Millisecond)
	op.Complete("done")

	out := buf.String()
	if !strings.Contains(out, "[sweep] COMPLETED: done") {
		t.Errorf("missing completion line: %q", out)
	}
	if strings.Contains(out, "elapsed=") {
		t.Error("elapsed field should be hidden by the clean formatter")
	}
}

func TestOperationLoggerFail(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "text", &buf)

	log.StartOperation("report").Fail("bad unit")
	if !strings.Contains(buf.String(), "[report] FAILED: bad unit") {
		t.Errorf("missing failure line: %q", buf.String())
	}
}

func TestFieldsFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []any
		expected int
	}{
		{"empty args", nil, 0},
		{"single pair", []any{"key", "value"}, 1},
		{"multiple pairs", []any{"k1", "v1", "k2", 42}, 2},
		{"odd number", []any{"key", "value", "orphan"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldsFromArgs(tt.args...)
			if len(fields) != tt.expected {
				t.Errorf("expected %d fields, got %d", tt.expected, len(fields))
			}
		})
	}
}

func TestCleanFormatterFieldOrder(t *testing.T) {
	DisableColors()
	formatter := &CleanFormatter{}

	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "test message",
		Data: logrus.Fields{
			"zeta":     1,
			"alpha":    2,
			"duration": "1.5s",
		},
	}

	output, err := formatter.Format(entry)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	out := string(output)
	if strings.Index(out, "alpha=2") > strings.Index(out, "zeta=1") {
		t.Errorf("fields should be sorted: %q", out)
	}
	if !strings.HasSuffix(out, "(1.5s)\n") {
		t.Errorf("duration should be appended last: %q", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{30 * time.Second, "30.0s"},
		{2*time.Minute + 5*time.Second, "2m 5s"},
		{2*time.Hour + 30*time.Minute, "2h 30m 0s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.duration); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.want)
		}
	}
}

func TestCLIHelpers(t *testing.T) {
	DisableColors()
	var out, errOut bytes.Buffer
	origOut, origErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	defer func() { Stdout, Stderr = origOut, origErr }()

	Success("wrote %d rows", 2)
	Warning("no csv given")
	Failure("cannot write %s", "/ro/x.csv")

	if !strings.Contains(out.String(), "wrote 2 rows") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "no csv given") || !strings.Contains(errOut.String(), "/ro/x.csv") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
