package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap with console output and an optional log file
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
	File  *os.File
	Path  string
}

// NewLogger builds a logger writing to stderr at the given level. When dir is
// not empty a timestamped JSON log file is created there as well.
func NewLogger(level, dir string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), lvl),
	}

	l := &Logger{}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}

		timestamp := time.Now().Format("20060102_150405")
		logFile := filepath.Join(dir, "reqpin_"+timestamp+".log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}

		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), lvl))
		l.File = file
		l.Path = logFile
	}

	l.zap = zap.New(zapcore.NewTee(cores...))
	l.sugar = l.zap.Sugar()
	return l, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	z := zap.NewNop()
	return &Logger{zap: z, sugar: z.Sugar()}
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(z *zap.Logger) *Logger {
	return &Logger{zap: z, sugar: z.Sugar()}
}

// Zap returns the underlying structured logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// Debugf logs debug messages
func (l *Logger) Debugf(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }

// Infof logs informational messages
func (l *Logger) Infof(format string, v ...interface{}) { l.sugar.Infof(format, v...) }

// Warnf logs warnings
func (l *Logger) Warnf(format string, v ...interface{}) { l.sugar.Warnf(format, v...) }

// Errorf logs error messages
func (l *Logger) Errorf(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

// Close flushes buffered entries and closes the log file when done
func (l *Logger) Close() {
	_ = l.zap.Sync()
	if l.File != nil {
		l.File.Close()
	}
}
