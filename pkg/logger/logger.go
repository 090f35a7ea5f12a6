// Package logger предоставляет общий интерфейс логирования поверх log/slog.
package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger — общий интерфейс логирования приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// SlogLogger реализует Logger поверх стандартного slog.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger создаёт логгер с JSON-выводом в stdout.
// Уровень задаётся переменной окружения LOG_LEVEL (debug|info|warn|error).
func NewSlogLogger() *SlogLogger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	return &SlogLogger{log: slog.New(handler)}
}

func (l *SlogLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Infof(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Warnf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Errorf(err error, format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...), slog.Any("error", err))
}
