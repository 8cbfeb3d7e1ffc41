// Package zaplog adapts a zap sugared logger to the auth.Logger interface.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/quizapp/go-auth"
)

// Logger wraps a *zap.SugaredLogger.
type Logger struct {
	log *zap.SugaredLogger
}

// New wraps the given zap logger. A nil logger falls back to zap's no-op.
func New(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Sugar()}
}

func (l *Logger) Debug(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log.Errorf(format, args...)
}

var _ auth.Logger = (*Logger)(nil)
