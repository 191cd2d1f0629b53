package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs the application's base zerolog logger from
// environment variables. LOG_LEVEL defaults to info, LOG_FORMAT may
// be "console" for human-readable output (JSON otherwise). The env
// name is stamped onto every line so aggregated logs stay
// attributable.
func New(env string) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	output := io.Writer(os.Stdout)
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "console" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", "studio-booking").
		Str("env", env).
		Logger()
}
