package raftcore

import (
	"context"
	"os"
	"runtime/trace"
	"sync"

	"github.com/pkg/errors"
	"go.etcd.io/etcd/client/pkg/v3/fileutil"
)

// Core is the single serialized actor owning a peer's log: one
// mutex-guarded struct per peer holding both file handles and all mutable
// tail state. Every exported method runs to completion holding the lock;
// there is no internal parallelism.
type Core struct {
	mu sync.Mutex

	peer   PeerID
	dir    string
	opts   Options
	logger Logger
	metric *metrics

	lf    *logFile
	lock  *fileutil.LockedFile
	st    tailState
	hints *hintCache

	closed bool
}

// Open recovers (or bootstraps) a peer's log file and returns a
// ready-to-use Core. The metadata file is not touched here; it is read by
// GetMetadata and written by SetMetadata. It takes an exclusive advisory lock on the log for
// the lifetime of the returned Core, returning ErrAlreadyOpen if another
// process already holds it; the log is strictly single-writer.
func Open(dir string, peer PeerID, opts ...Option) (*Core, error) {
	o := buildOptions(opts...)

	logPath := peer.LogPath(dir)

	lockFile, err := fileutil.TryLockFile(logPath+".lock", os.O_RDWR|os.O_CREATE, 0o640)
	if err != nil {
		if err == fileutil.ErrLocked {
			return nil, ErrAlreadyOpen
		}
		return nil, errors.Wrapf(err, "raftcore: lock log file %s", logPath)
	}

	lf, err := openLogFile(logPath)
	if err != nil {
		_ = lockFile.Close()
		return nil, err
	}

	size, err := lf.size()
	if err != nil {
		_ = lf.close()
		_ = lockFile.Close()
		return nil, err
	}

	var r recovered
	if size == 0 {
		if err := bootstrapEmpty(lf); err != nil {
			_ = lf.close()
			_ = lockFile.Close()
			return nil, err
		}
		r = recovered{writeOffset: FileHeaderSize, version: FileVersion}
	} else {
		r, err = recoverState(lf, o.Logger)
		if err != nil {
			_ = lf.close()
			_ = lockFile.Close()
			return nil, err
		}
	}

	m := newMetrics(o.MetricsRegisterer, peer.String())
	if r.truncatedGarbage {
		m.truncations.WithLabelValues("recovery").Inc()
	}

	c := &Core{
		peer:   peer,
		dir:    dir,
		opts:   o,
		logger: o.Logger,
		metric: m,
		lf:     lf,
		lock:   lockFile,
		st:     stateFromRecovery(r),
		hints:  newHintCache(o.HintCacheSize, m),
	}
	return c, nil
}

// Append is the leader-mode write: assign sequential indices to entries
// and append them, one fsync at the end of the batch. ctx is used only to
// open a runtime/trace.Task span for this call; it is never consulted for
// cancellation or deadlines, since operations are not cancellable
// mid-flight.
func (c *Core) Append(ctx context.Context, entries []Entry) (uint64, error) {
	_, task := trace.NewTask(ctx, "raftlog.Append")
	defer task.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	if len(entries) == 0 {
		return 0, ErrEmptyBatch
	}

	if err := appendEntries(c.lf, &c.st, entries, true, !c.opts.DisableFsyncForTests, c.metric); err != nil {
		return 0, err
	}
	return c.st.lastIndex, nil
}

// CheckAndAppend is the follower-mode write: verify overlap with the
// on-disk tail, truncate any divergent suffix, append the rest. ctx only
// scopes the trace span; see Append.
func (c *Core) CheckAndAppend(ctx context.Context, entries []Entry, startIndex uint64) (uint64, error) {
	_, task := trace.NewTask(ctx, "raftlog.CheckAndAppend")
	defer task.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}

	return checkAndAppend(c.lf, c.hints, c.metric, &c.st, entries, startIndex, !c.opts.DisableFsyncForTests)
}

// GetEntry returns the entry at index, or ok=false if index lies outside
// [1, last_index].
func (c *Core) GetEntry(index uint64) (Entry, bool, error) {
	_, task := trace.NewTask(context.Background(), "raftlog.GetEntry")
	defer task.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Entry{}, false, ErrClosed
	}
	if index < 1 || index > c.st.lastIndex {
		return Entry{}, false, nil
	}
	return seekEntry(c.lf, c.hints, c.metric, index, c.st.writeOffset)
}

// GetLastEntry returns the most recently written entry, served from the
// in-memory cache without any I/O.
func (c *Core) GetLastEntry() (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Entry{}, false, ErrClosed
	}
	if c.st.lastEntry == nil {
		return Entry{}, false, nil
	}
	return *c.st.lastEntry, true, nil
}

// GetLastIndex returns the index of the last entry on disk, or 0 if the
// log is empty.
func (c *Core) GetLastIndex() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	return c.st.lastIndex, nil
}

// GetTerm returns the term of the entry at index, or 0 for an absent
// index; callers must use GetLastIndex to disambiguate "absent" from
// "term 0".
func (c *Core) GetTerm(index uint64) (uint64, error) {
	entry, ok, err := c.GetEntry(index)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return entry.Term, nil
}

// GetConfig returns the newest config payload still inside the retained
// prefix, or a blank Config if none has been logged.
func (c *Core) GetConfig() (Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Config{}, ErrClosed
	}
	return c.st.config, nil
}

// GetMetadata returns the peer's persisted term and vote, or the zero
// Metadata if the metadata file is absent.
func (c *Core) GetMetadata() (Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Metadata{}, ErrClosed
	}
	size, err := c.lf.size()
	if err != nil {
		return Metadata{}, err
	}
	return loadMetadata(c.peer.MetaPath(c.dir), size, c.logger)
}

// SetMetadata durably overwrites the metadata file via a crash-atomic
// write-then-rename. ctx only scopes the trace span; see Append.
func (c *Core) SetMetadata(ctx context.Context, m Metadata) error {
	_, task := trace.NewTask(ctx, "raftlog.SetMetadata")
	defer task.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return storeMetadata(c.peer.MetaPath(c.dir), m)
}

// Stats is a point-in-time diagnostic snapshot of a peer's log: current
// size, hint cache occupancy, and accumulated seek-scan statistics.
type Stats struct {
	LastIndex      uint64
	WriteOffset    int64
	ConfigBlank    bool
	HintCount      int
	MeanSeekLength float64
	P99SeekLength  int64
}

// Stats returns a point-in-time diagnostic snapshot.
func (c *Core) Stats() (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Stats{}, ErrClosed
	}
	mean, p99 := c.metric.SeekStats()
	return Stats{
		LastIndex:      c.st.lastIndex,
		WriteOffset:    c.st.writeOffset,
		ConfigBlank:    c.st.config.IsBlank(),
		HintCount:      c.hints.len(),
		MeanSeekLength: mean,
		P99SeekLength:  p99,
	}, nil
}

// Stop drains any in-flight operation (mu is the serialization point),
// closes the file handles and releases the exclusive lock. ctx only scopes
// the trace span; see Append.
func (c *Core) Stop(ctx context.Context) error {
	_, task := trace.NewTask(ctx, "raftlog.Stop")
	defer task.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	closeErr := c.lf.close()
	lockErr := c.lock.Close()
	if closeErr != nil {
		return closeErr
	}
	return lockErr
}
