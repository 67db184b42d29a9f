package raftlog

import (
	"github.com/nullzu/raftlog/internal/raftcore"
	"github.com/sirupsen/logrus"
)

// Logger is the small logging facility threaded through Options.
type Logger = raftcore.Logger

// NewLogrusLogger wraps l as a Logger. Passing nil uses logrus's default
// configuration.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return raftcore.NewLogrusLogger(l)
}

// NewDiscardLogger returns a Logger that ignores everything.
func NewDiscardLogger() Logger {
	return raftcore.NewDiscardLogger()
}
