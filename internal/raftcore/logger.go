package raftcore

import "github.com/sirupsen/logrus"

// Logger is the small logging facility threaded through Options. Hosts
// plug in whatever structured logger they already run; the default wraps
// logrus.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// logrusLogger adapts *logrus.Logger to Logger. It is the default used when
// Options.Logger is left unset.
type logrusLogger struct {
	l *logrus.Logger
}

// NewLogrusLogger wraps l as a Logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.New()
	}
	return logrusLogger{l: l}
}

func (l logrusLogger) Infof(format string, args ...interface{})  { l.l.Infof(format, args...) }
func (l logrusLogger) Warnf(format string, args ...interface{})  { l.l.Warnf(format, args...) }
func (l logrusLogger) Errorf(format string, args ...interface{}) { l.l.Errorf(format, args...) }

// discardLogger drops everything; used when Options explicitly silences
// logging (e.g. in tests).
type discardLogger struct{}

func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}

// NewDiscardLogger returns a Logger that ignores everything.
func NewDiscardLogger() Logger { return discardLogger{} }
