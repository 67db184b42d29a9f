package raftlog

import "github.com/nullzu/raftlog/internal/raftcore"

// Sentinel errors returned across the public contract. Compare with
// errors.Is; none of these are used purely for control flow (the
// not-found outcomes of GetEntry/GetLastEntry are a named bool return
// instead).
var (
	// ErrNotFound marks an index outside [1, last_index], exported for
	// callers that prefer an error-returning wrapper over the bool outcome
	// GetEntry itself returns.
	ErrNotFound = raftcore.ErrNotFound

	// ErrClosed is returned by any operation issued after Stop has run.
	ErrClosed = raftcore.ErrClosed

	// ErrAlreadyOpen is returned by Open when another process already holds
	// the exclusive lock on this peer's log.
	ErrAlreadyOpen = raftcore.ErrAlreadyOpen

	// ErrStartIndexMismatch is returned by CheckAndAppend when the first
	// input entry's index does not equal the declared start index.
	ErrStartIndexMismatch = raftcore.ErrStartIndexMismatch

	// ErrEmptyBatch is returned by Append/CheckAndAppend when called with no
	// entries.
	ErrEmptyBatch = raftcore.ErrEmptyBatch

	// ErrCorrupt marks a fatal integrity error: a SHA-1 mismatch, a trailer
	// CRC mismatch inside the retained prefix, an unexpected EOF inside an
	// entry, or a malformed header.
	ErrCorrupt = raftcore.ErrCorrupt
)
