package zecs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogFormat selects how store logs are rendered.
type LogFormat string

const (
	LogFormatUndefined LogFormat = ""
	LogFormatJSON      LogFormat = "json"
	LogFormatPretty    LogFormat = "pretty"
)

// ParseLogFormat maps a config string to a LogFormat, returning LogFormatUndefined for
// anything it does not recognize.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	case "pretty":
		return LogFormatPretty
	default:
		return LogFormatUndefined
	}
}

// newLogger builds the store logger described by cfg, writing to out.
func newLogger(cfg Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}

	writer := out
	if ParseLogFormat(cfg.LogFormat) == LogFormatPretty {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("component", "zecs").
		Logger()
}

func defaultLogger(cfg Config) zerolog.Logger {
	return newLogger(cfg, os.Stderr)
}
