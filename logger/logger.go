// Package logger builds the process logger from LoggingConfig.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/tvdbarr/config"
)

// Logger is a zerolog logger that may own a rotating log file.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// New configures a logger writing to stderr and, when cfg.File is set, to a
// rotating file.
func New(cfg config.LoggingConfig) *Logger {
	return newLogger(cfg, os.Stderr, isTerminal(os.Stderr))
}

func newLogger(cfg config.LoggingConfig, out io.Writer, tty bool) *Logger {
	var console io.Writer = out
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !tty,
		}
	}

	output := console
	var rotator *lumberjack.Logger
	if cfg.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		// The file always gets JSON regardless of the console format.
		output = io.MultiWriter(console, rotator)
	}

	logger := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger, rotator: rotator}
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// ParseLevel converts a config level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
