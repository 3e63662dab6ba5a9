package pad

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger is shared by every Document. pad is single-threaded, so swapping it
// with SetLogger between frames is safe.
var logger = NewLogger(os.Stderr, log.InfoLevel)

// NewLogger creates a logger with the pad prefix and timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "pad",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// SetLogger replaces the logger used for warnings and debug output.
// A nil logger restores the default stderr logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = NewLogger(os.Stderr, log.InfoLevel)
	}
	logger = l
}

// Logger returns the logger currently in use.
func Logger() *log.Logger {
	return logger
}
