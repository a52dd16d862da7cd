// Package logging configures the zerolog logger shared by the API and worker
// binaries. Output format and level come from the environment so the same
// binary can log JSON in production and pretty console lines in development.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger tagged with the service name.
//
// LOG_LEVEL: debug|info|warn|error (default info)
// LOG_FORMAT: json|console (default json)
func New(service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}

	var w = os.Stdout
	logger := zerolog.New(w)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}
