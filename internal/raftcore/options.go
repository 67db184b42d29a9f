package raftcore

import (
	"encoding/json"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tailscale/hujson"
)

// Options configures Open. Open starts from buildOptions' defaults (a
// logrus default logger, an unregistered private metrics registry, a
// MaxHints-capacity hint cache, fsync enabled) and applies each Option in
// turn.
type Options struct {
	Logger               Logger
	MetricsRegisterer    prometheus.Registerer
	HintCacheSize        int
	DisableFsyncForTests bool
}

// Option mutates an Options value; constructors below build the common
// cases.
type Option func(*Options)

// WithLogger overrides the default logrus logger.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetricsRegisterer registers this peer's metrics against reg instead of
// a private, unexposed registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) { o.MetricsRegisterer = reg }
}

// WithHintCacheSize overrides MaxHints for this peer's cache. Mainly useful
// in tests that want to exercise eviction without writing 1000 entries.
func WithHintCacheSize(n int) Option {
	return func(o *Options) { o.HintCacheSize = n }
}

// WithFsync toggles the fsync calls the write path would otherwise issue
// after every Append/CheckAndAppend batch. It defaults to true; tests that
// run thousands of tiny appends against a tmpfs pass WithFsync(false) so
// they don't pay for durability they then discard.
func WithFsync(enabled bool) Option {
	return func(o *Options) { o.DisableFsyncForTests = !enabled }
}

func buildOptions(opts ...Option) Options {
	o := Options{
		Logger:        NewLogrusLogger(nil),
		HintCacheSize: MaxHints,
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// optionsFile is the on-disk shape loadable via LoadOptions: a JSON5-with-
// comments document, for hosts that keep peer settings alongside other
// declarative config on disk.
type optionsFile struct {
	HintCacheSize int `json:"hint_cache_size"`
}

// LoadOptions reads a JSON5-with-comments options file from path and
// returns the Option values derived from it. Callers still choose the
// Logger and MetricsRegisterer programmatically; this only covers the
// handful of settings that make sense to check into a config file.
func LoadOptions(path string) ([]Option, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // caller-supplied config path, not attacker input.
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, err
	}

	var f optionsFile
	if err := json.Unmarshal(std, &f); err != nil {
		return nil, err
	}

	var out []Option
	if f.HintCacheSize > 0 {
		out = append(out, WithHintCacheSize(f.HintCacheSize))
	}
	return out, nil
}
