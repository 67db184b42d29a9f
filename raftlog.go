package raftlog

import (
	"context"

	"github.com/nullzu/raftlog/internal/raftcore"
)

// Log is a single peer's persistent replicated log: a log file and a
// metadata file, both owned by one serialized actor. All methods execute to
// completion before the next begins; there is no internal parallelism.
type Log struct {
	core *raftcore.Core
}

// Open recovers (or bootstraps, on first use) peer's log file under dir and
// returns a ready-to-use Log. The metadata file is read by GetMetadata and
// written by SetMetadata, not by Open. It returns ErrAlreadyOpen if
// another process already holds the peer's log open.
func Open(dir string, peer PeerID, opts ...Option) (*Log, error) {
	c, err := raftcore.Open(dir, peer, opts...)
	if err != nil {
		return nil, err
	}
	return &Log{core: c}, nil
}

// Append is the leader-mode operation: entries carry no index, the log
// assigns last_index+1, last_index+2, ... in order, writes them, and issues
// a single fsync at the end of the batch. It returns the final assigned
// index.
func (l *Log) Append(ctx context.Context, entries []Entry) (uint64, error) {
	return l.core.Append(ctx, entries)
}

// CheckAndAppend is the follower-mode operation: entries carry
// leader-assigned indices, the first of which must equal startIndex. The
// log compares them against its on-disk tail, truncates any divergent
// suffix, and appends the remainder -- never discarding an on-disk frame
// whose (index, term) matches an incoming one. It returns the resulting
// last_index.
func (l *Log) CheckAndAppend(ctx context.Context, entries []Entry, startIndex uint64) (uint64, error) {
	return l.core.CheckAndAppend(ctx, entries, startIndex)
}

// GetEntry returns the entry at index, or ok=false if index is outside
// [1, GetLastIndex()].
func (l *Log) GetEntry(index uint64) (entry Entry, ok bool, err error) {
	return l.core.GetEntry(index)
}

// GetLastEntry returns the most recently written entry, served from an
// in-memory cache without touching disk.
func (l *Log) GetLastEntry() (entry Entry, ok bool, err error) {
	return l.core.GetLastEntry()
}

// GetLastIndex returns the index of the last entry on disk, or 0 if empty.
func (l *Log) GetLastIndex() (uint64, error) {
	return l.core.GetLastIndex()
}

// GetTerm returns the term of the entry at index, or 0 if absent. Callers
// must use GetLastIndex to disambiguate "absent" from "term 0".
func (l *Log) GetTerm(index uint64) (uint64, error) {
	return l.core.GetTerm(index)
}

// GetConfig returns the payload of the most recently logged config entry
// still within the retained prefix, or a blank Config if none has been
// logged.
func (l *Log) GetConfig() (Config, error) {
	return l.core.GetConfig()
}

// GetMetadata returns the peer's current term and vote. If the metadata
// file is absent, it returns the zero Metadata.
func (l *Log) GetMetadata() (Metadata, error) {
	return l.core.GetMetadata()
}

// SetMetadata durably overwrites the metadata file via write-to-temp-file-
// then-rename, so a crash never leaves a torn metadata file behind.
func (l *Log) SetMetadata(ctx context.Context, m Metadata) error {
	return l.core.SetMetadata(ctx, m)
}

// Stats reports a point-in-time diagnostic snapshot of this peer's log:
// size, hint cache occupancy, and accumulated seek-scan statistics.
func (l *Log) Stats() (Stats, error) {
	return l.core.Stats()
}

// Stop flushes and closes the log, releasing its file handles and its
// exclusive lock on the log file. It is safe to call more than once.
func (l *Log) Stop(ctx context.Context) error {
	return l.core.Stop(ctx)
}
