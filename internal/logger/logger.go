package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New constructs the service logger. Production writes one JSON object per line to stdout;
// development switches to the human-readable console writer.
func New(appEnv, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, appEnv, level)
}

// NewWithWriter is New with an explicit output, used by tests.
func NewWithWriter(w io.Writer, appEnv, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if appEnv == "development" && level == "" {
		lvl = zerolog.DebugLevel
	}

	if appEnv == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "foodshare").
		Logger()
}
