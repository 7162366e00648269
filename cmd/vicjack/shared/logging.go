package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a logger writing to w
func SetupLogger(w io.Writer, levelName string, debug bool) *log.Logger {
	level, err := log.ParseLevel(levelName)
	if err != nil {
		level = log.InfoLevel
	}
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// OpenLogFile opens path for appending. The TUI owns the terminal, so
// interactive mode logs to a file instead of stderr.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
