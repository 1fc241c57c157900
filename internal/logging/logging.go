package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codewandler/pipeman/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger from cfg. The returned closer releases the
// log file and is safe to call on a logger that writes elsewhere.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	var out io.Writer = io.Discard
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return zerolog.Nop(), closer, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		out, closer = f, f
	}

	return newLogger(out, cfg.Format, cfg.Level), closer, nil
}

func newLogger(out io.Writer, format, level string) zerolog.Logger {
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
