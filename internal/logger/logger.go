package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root application logger. Development mode writes
// human-readable console output, everything else writes JSON lines.
func New(level string, development bool) zerolog.Logger {
	var out io.Writer = os.Stdout
	if development {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// GormWriter adapts a zerolog logger to the Printf writer expected by
// gorm's logger.New.
type GormWriter struct {
	Logger zerolog.Logger
}

func (w GormWriter) Printf(format string, args ...interface{}) {
	w.Logger.Debug().Str("component", "gorm").Msgf(format, args...)
}
