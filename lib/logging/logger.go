package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Packages lists the names of all loggers used by jKV
var Packages = []string{"pasture", "store", "cli"}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// jkvLogger implements the ILogger interface on top of a slog handler
type jkvLogger struct {
	name   string
	level  logger.LogLevel
	logger *slog.Logger
}

func (l *jkvLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *jkvLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log(slog.LevelDebug, format, args...)
	}
}

func (l *jkvLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log(slog.LevelInfo, format, args...)
	}
}

func (l *jkvLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log(slog.LevelWarn, format, args...)
	}
}

func (l *jkvLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log(slog.LevelError, format, args...)
	}
}

func (l *jkvLogger) Panicf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if l.level >= logger.CRITICAL {
		l.logger.Log(context.Background(), slog.LevelError+4, message, "pkg", l.name)
	}
	panic(message)
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *jkvLogger) log(level slog.Level, format string, args ...interface{}) {
	l.logger.Log(context.Background(), level, fmt.Sprintf(format, args...), "pkg", l.name)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// NewLogger creates a logger for pkgName writing to w. Colors are only used if
// color is set.
func NewLogger(pkgName string, w io.Writer, color bool) logger.ILogger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug, // filtering is done by jkvLogger
		TimeFormat: "15:04:05.000",
		NoColor:    !color,
	})
	return &jkvLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: slog.New(handler),
	}
}

// CreateLogger implements dragonboats logger.Factory. Loggers write to stderr,
// with colors if stderr is a terminal.
func CreateLogger(pkgName string) logger.ILogger {
	return NewLogger(pkgName, colorable.NewColorable(os.Stderr), isatty.IsTerminal(os.Stderr.Fd()))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info", "":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom logger factory and sets the level of all jKV loggers
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	// Set as the global logger factory
	logger.SetLoggerFactory(CreateLogger)

	for _, pkg := range Packages {
		logger.GetLogger(pkg).SetLevel(lvl)
	}
	return nil
}
