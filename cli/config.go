package cli

import (
	"io"

	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings that writes to w.
func CreateLogger(w io.Writer, debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = w
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
