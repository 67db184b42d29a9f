package raftcore

import (
	"sync"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the counters this package exposes for operational
// dashboards, wired through the Registerer injected via Options.
type metrics struct {
	bytesWritten   prometheus.Counter
	entriesWritten prometheus.Counter
	appends        prometheus.Counter
	fsyncs         prometheus.Counter
	truncations    *prometheus.CounterVec
	hintPrunes     prometheus.Counter

	seekMu   sync.Mutex
	seekHist *hdrhistogram.Histogram
}

// newMetrics constructs the metric set and registers it against reg. reg may
// be nil, in which case a private, unregistered registry is used so callers
// that don't care about metrics don't need a global registry side effect.
func newMetrics(reg prometheus.Registerer, peer string) *metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	labels := prometheus.Labels{"peer": peer}
	factory := promAutoWith(reg)

	return &metrics{
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name:        "raftlog_entry_bytes_written",
			Help:        "Bytes of encoded entry data appended to the log, excluding frame overhead.",
			ConstLabels: labels,
		}),
		entriesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name:        "raftlog_entries_written",
			Help:        "Number of entries appended to the log.",
			ConstLabels: labels,
		}),
		appends: factory.NewCounter(prometheus.CounterOpts{
			Name:        "raftlog_append_calls",
			Help:        "Number of Append/CheckAndAppend batches that wrote entries to the log.",
			ConstLabels: labels,
		}),
		fsyncs: factory.NewCounter(prometheus.CounterOpts{
			Name:        "raftlog_fsyncs",
			Help:        "Number of fsync calls issued against the log file.",
			ConstLabels: labels,
		}),
		truncations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "raftlog_truncations",
			Help:        "Number of times the log file was truncated, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		hintPrunes: factory.NewCounter(prometheus.CounterOpts{
			Name:        "raftlog_hint_cache_prunes",
			Help:        "Number of decimation passes over the hint cache.",
			ConstLabels: labels,
		}),
		seekHist: hdrhistogram.New(1, 1<<20, 3),
	}
}

// recordSeek folds the number of entries scanned by a single GetEntry call
// into the seek-length histogram.
func (m *metrics) recordSeek(scanned int64) {
	m.seekMu.Lock()
	defer m.seekMu.Unlock()
	_ = m.seekHist.RecordValue(scanned)
}

// SeekStats reports the mean and 99th percentile of entries scanned per
// get_entry call observed so far.
func (m *metrics) SeekStats() (mean float64, p99 int64) {
	m.seekMu.Lock()
	defer m.seekMu.Unlock()
	return m.seekHist.Mean(), m.seekHist.ValueAtQuantile(99)
}

// factory is the small subset of promauto's API this package needs; kept as
// an indirection so newMetrics can be unit tested without a global registry.
type factory struct {
	reg prometheus.Registerer
}

func promAutoWith(reg prometheus.Registerer) factory {
	return factory{reg: reg}
}

func (f factory) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	f.reg.MustRegister(c)
	return c
}

func (f factory) NewCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	f.reg.MustRegister(c)
	return c
}
