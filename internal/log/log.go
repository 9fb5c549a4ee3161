// Package log provides centralized logging functionality using zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger. Debug selects zap's
// development encoder and enables debug output.
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	SetLogger(zapLogger)
	return nil
}

// SetLogger replaces the package-level logger. Tests use it to capture
// output with zaptest/observer.
func SetLogger(l *zap.Logger) {
	baseLogger = l
	log = l.Sugar()
}

// GetSugaredLogger returns the sugared logger instance
func GetSugaredLogger() *zap.SugaredLogger {
	if log == nil {
		// Fallback logger if not initialized
		l, _ := zap.NewProduction(zap.AddCallerSkip(1))
		SetLogger(l)
	}
	return log
}

// With returns a child of the package logger carrying the given fields,
// e.g. the run ID. The package logger itself is not changed.
func With(keysAndValues ...any) *zap.SugaredLogger {
	return GetSugaredLogger().With(keysAndValues...)
}

// Sync flushes any buffered log entries
func Sync() {
	if log != nil {
		log.Sync()
	}
}

func Debugw(msg string, keysAndValues ...any) {
	GetSugaredLogger().Debugw(msg, keysAndValues...)
}

func Infof(template string, args ...any) {
	GetSugaredLogger().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...any) {
	GetSugaredLogger().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	GetSugaredLogger().Warnw(msg, keysAndValues...)
}

func Errorf(template string, args ...any) {
	GetSugaredLogger().Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	GetSugaredLogger().Errorw(msg, keysAndValues...)
}
