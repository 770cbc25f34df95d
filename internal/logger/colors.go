package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// CLI output helpers. They write to Stdout/Stderr, which tests may swap.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Success prints a success message with green checkmark
func Success(format string, args ...interface{}) {
	_, _ = SuccessColor.Fprint(Stdout, "✓ ")
	fmt.Fprintln(Stdout, fmt.Sprintf(format, args...))
}

// Failure prints an error message with red X to stderr
func Failure(format string, args ...interface{}) {
	_, _ = ErrorColor.Fprint(Stderr, "✗ ")
	fmt.Fprintln(Stderr, fmt.Sprintf(format, args...))
}

// Warning prints a warning message with yellow exclamation to stderr
func Warning(format string, args ...interface{}) {
	_, _ = WarnColor.Fprint(Stderr, "⚠ ")
	fmt.Fprintln(Stderr, fmt.Sprintf(format, args...))
}

// Path returns a highlighted file path
func Path(p string) string {
	return PathColor.Sprint(p)
}

// DisableColors disables all color output (for non-TTY or --no-color flag)
func DisableColors() {
	color.NoColor = true
}
