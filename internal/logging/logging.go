// Package logging wraps logrus behind a small interface so callers of
// the engine can supply their own sink without importing logrus
// directly, in the style of firestige-Otus's pkg/log.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus's API the engine and its surrounding
// CLI actually use.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New builds a text-formatted logrus logger writing to stderr at the
// given level ("debug", "info", "warn", ...).
func New(level string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// Nop is a Logger that discards everything, used as the engine's
// default so production builds pay no logging cost unless a caller
// opts in.
type nop struct{}

func (nop) Debugf(string, ...interface{})          {}
func (nop) Warnf(string, ...interface{})           {}
func (nop) WithField(string, interface{}) Logger   { return nop{} }

// Nop is the shared no-op logger instance.
var Nop Logger = nop{}
