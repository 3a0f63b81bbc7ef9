package logging

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

// Options select the verbosity and encoding of the process logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a logr.Logger backed by zerolog. V(1) maps to debug and V(2) to
// trace; an unknown level falls back to info.
func New(opts Options) logr.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	zerologr.SetMaxV(2)
	return zerologr.New(&zl).WithName("callcore")
}
