package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

var (
	currentLevel = LevelOff
	logger       zerolog.Logger
	logFile      *os.File
	enabled      bool
)

// Setup configures the logging system with the specified level and optional
// file path. If filePath is empty, defaults to ~/.snooze/snooze.log.
func Setup(level LogLevel, filePath ...string) error {
	currentLevel = level

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if level == LevelOff {
		enabled = false
		return nil
	}

	var logPath string
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	} else {
		home, _ := os.UserHomeDir()
		dir := filepath.Join(home, ".snooze")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		logPath = filepath.Join(dir, "snooze.log")
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	logger = zerolog.New(f).Level(level.zerologLevel()).With().Timestamp().Str("app", "snooze").Logger()
	enabled = true
	return nil
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	currentLevel = level
	if enabled {
		logger = logger.Level(level.zerologLevel())
	}
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	enabled = false
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func Debugf(format string, args ...any) {
	if enabled {
		logger.Debug().Msgf(format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled {
		logger.Info().Msgf(format, args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled {
		logger.Warn().Msgf(format, args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled {
		logger.Error().Msgf(format, args...)
	}
}

// FieldLogger carries structured fields across related log calls.
type FieldLogger struct {
	logger zerolog.Logger
}

// WithFields returns a logger that attaches the given fields to every entry.
func WithFields(fields map[string]interface{}) *FieldLogger {
	ctx := logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	return &FieldLogger{logger: ctx.Logger()}
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	if enabled {
		fl.logger.Debug().Msgf(format, args...)
	}
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	if enabled {
		fl.logger.Info().Msgf(format, args...)
	}
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	if enabled {
		fl.logger.Warn().Msgf(format, args...)
	}
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	if enabled {
		fl.logger.Error().Msgf(format, args...)
	}
}
