// Package logger configures the process-wide zerolog logger used by the
// import pipeline.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to stderr. Pass debug=true to keep
// debug-level events; otherwise the level is info.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.99",
	}).Level(level).With().Timestamp().Logger()
}
