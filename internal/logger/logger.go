// Package logger builds the process-wide zerolog root logger. Components
// derive their own sub-loggers from it with a component tag.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05.000"

// New constructs the root logger for the given environment. Development
// environments get a human readable console writer; everything else emits
// JSON for log ingestion.
func New(env, level string, writers ...io.Writer) (zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Logger{}, err
	}
	zerolog.TimeFieldFormat = timeFormat
	zerolog.DurationFieldUnit = time.Millisecond

	var output io.Writer
	switch {
	case len(writers) > 0:
		output = io.MultiWriter(writers...)
	case isDevelopment(env):
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat}
	default:
		output = os.Stdout
	}

	return zerolog.New(output).With().Timestamp().Logger().Level(lvl), nil
}

func isDevelopment(env string) bool {
	return strings.EqualFold(env, "development") || strings.EqualFold(env, "dev")
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logger: %w", err)
	}
	return lvl, nil
}
