package raftcore

import "github.com/pkg/errors"

var (
	// ErrNotFound marks an index outside [1, last_index]. GetEntry itself
	// reports that case as ok=false with a nil error, not with ErrNotFound.
	ErrNotFound = errors.New("raftcore: entry not found")

	// ErrClosed is returned by any operation issued after Stop has been
	// called.
	ErrClosed = errors.New("raftcore: log is closed")

	// ErrAlreadyOpen is returned by Open when another process already holds
	// the exclusive lock on this peer's log. The log is strictly
	// single-writer; a second concurrent owner would corrupt both views.
	ErrAlreadyOpen = errors.New("raftcore: log already open by another process")

	// ErrStartIndexMismatch is returned by CheckAndAppend when the first
	// input entry's index does not equal the declared start_index.
	ErrStartIndexMismatch = errors.New("raftcore: first entry index does not match start_index")

	// ErrEmptyBatch is returned by Append/CheckAndAppend when called with no
	// entries.
	ErrEmptyBatch = errors.New("raftcore: empty entry batch")
)
