package raftlog

import (
	"github.com/nullzu/raftlog/internal/raftcore"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configures Open. Open starts from its defaults and applies each
// Option in turn.
type Options = raftcore.Options

// Option mutates an Options value.
type Option = raftcore.Option

// MaxHints is the default hint cache capacity.
const MaxHints = raftcore.MaxHints

// WithLogger overrides the default logrus-backed Logger.
func WithLogger(l Logger) Option {
	return raftcore.WithLogger(l)
}

// WithMetricsRegisterer registers this peer's metrics against reg instead of
// a private, unexposed registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return raftcore.WithMetricsRegisterer(reg)
}

// WithHintCacheSize overrides MaxHints for this peer's hint cache.
func WithHintCacheSize(n int) Option {
	return raftcore.WithHintCacheSize(n)
}

// WithFsync toggles the fsync issued after every Append/CheckAndAppend
// batch. It defaults to true; pass false only in tests that want to avoid
// paying for durability they immediately discard.
func WithFsync(enabled bool) Option {
	return raftcore.WithFsync(enabled)
}

// LoadOptions reads a JSON5-with-comments options file from path and
// returns the Option values derived from it. The path is caller-supplied;
// the log itself reads no environment variables and takes no flags.
func LoadOptions(path string) ([]Option, error) {
	return raftcore.LoadOptions(path)
}
