package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the console logger. Production output is uncolored and starts at
// info; everything else logs debug.
func New(environment string) zerolog.Logger {
	return NewWithWriter(os.Stderr, environment)
}

func NewWithWriter(out io.Writer, environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	level := zerolog.DebugLevel
	if environment == "production" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("env", environment).
		Logger()
}

// Component tags every event with the emitting package.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
