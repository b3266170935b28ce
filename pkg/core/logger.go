package core

import (
	"io"

	"github.com/phuslu/log"
)

// NewLogger creates a console logger writing to w.
// Debug output is only emitted when debug is set.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return &log.Logger{
		Level: level,
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			QuoteString:    true,
			EndWithMessage: true,
			Writer:         w,
		},
	}
}

// DiscardLogger returns a logger that drops every entry
func DiscardLogger() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}
