package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the diagnostic logger. It writes only to a rotating file so it
// never draws over the terminal UI.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// LoggerConfig holds diagnostic logger configuration.
type LoggerConfig struct {
	Level      string
	Dir        string // directory for the log file; empty discards output
	MaxSizeMB  int    // default 10
	MaxBackups int    // default 3
	MaxAgeDays int    // default 30
}

// NewLogger creates the diagnostic logger.
func NewLogger(cfg LoggerConfig) *Logger {
	var output io.Writer = io.Discard
	var rotator *lumberjack.Logger

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err == nil {
			rotator = &lumberjack.Logger{
				Filename:   filepath.Join(cfg.Dir, "show-onboard.log"),
				MaxSize:    orDefault(cfg.MaxSizeMB, 10),
				MaxBackups: orDefault(cfg.MaxBackups, 3),
				MaxAge:     orDefault(cfg.MaxAgeDays, 30),
				LocalTime:  true,
			}
			output = rotator
		}
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

// WithComponent returns a zerolog.Logger tagged with a component field.
func (l *Logger) WithComponent(component string) zerolog.Logger {
	return l.Logger.With().Str("component", component).Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
