package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Определяем уровни логирования
const (
	DEBUG = "DEBUG"
	INFO  = "INFO"
	WARN  = "WARN"
	ERROR = "ERROR"
)

// Config describes where log output goes.
type Config struct {
	Level string
	// File, when set, receives a copy of every entry next to stderr.
	File string
}

var (
	mu     sync.RWMutex
	logger = defaultLogger()
)

func defaultLogger() *zap.Logger {
	l, err := build(Config{Level: INFO})
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Init replaces the process logger. The previous logger is flushed.
func Init(cfg Config) error {
	l, err := build(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	old := logger
	logger = l
	mu.Unlock()
	_ = old.Sync()
	return nil
}

// Set replaces the process logger with l, mainly for tests.
func Set(l *zap.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L returns the current process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

func build(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.File != "" {
		// Проверяем, что файл можно открыть на запись до того, как zap его заберёт.
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		f.Close()
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}
	return zc.Build()
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a zap level.
// An empty string means INFO.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", INFO:
		return zapcore.InfoLevel, nil
	case DEBUG:
		return zapcore.DebugLevel, nil
	case WARN, "WARNING":
		return zapcore.WarnLevel, nil
	case ERROR:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// LogMessage writes message at the named level.
func LogMessage(level, message string, fields ...zap.Field) {
	l := L()
	switch strings.ToUpper(level) {
	case DEBUG:
		l.Debug(message, fields...)
	case WARN:
		l.Warn(message, fields...)
	case ERROR:
		l.Error(message, fields...)
	default:
		l.Info(message, fields...)
	}
}

// PrintIfErr logs *err at ERROR level when it is not nil.
// Intended for deferred cleanup calls: defer PrintIfErr("close", &err).
func PrintIfErr(msg string, err *error) {
	if err == nil || *err == nil {
		return
	}
	L().Error(msg, zap.Error(*err))
}
