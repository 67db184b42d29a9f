package raftcore

import "github.com/pkg/errors"

// checkAndAppend compares the incoming entries against the on-disk tail
// starting at start_index, then either advances (every entry already
// matches) or truncates the diverging suffix and appends the new one. It
// never discards an on-disk frame whose (index, term) matches an incoming
// one.
func checkAndAppend(lf *logFile, hints *hintCache, m *metrics, st *tailState, entries []Entry, startIndex uint64, doSync bool) (uint64, error) {
	if len(entries) == 0 {
		return 0, ErrEmptyBatch
	}
	if entries[0].Index != startIndex {
		return 0, ErrStartIndexMismatch
	}
	for i, e := range entries {
		if e.Index != startIndex+uint64(i) {
			return 0, ErrStartIndexMismatch
		}
	}

	l, err := locateReconcileStart(lf, hints, st, startIndex)
	if err != nil {
		return 0, err
	}

	matched := 0
	for matched < len(entries) && l < st.writeOffset {
		headerBytes := make([]byte, HeaderSize)
		if err := lf.readAt(headerBytes, l); err != nil {
			return 0, err
		}
		h, err := decodeHeader(headerBytes)
		if err != nil {
			return 0, err
		}

		if h.term != entries[matched].Term {
			break // divergence: truncate-and-write from l
		}
		l = nextEntryOffset(l, h.dataSize)
		matched++
	}

	if matched == len(entries) {
		// Every incoming entry already matches the on-disk tail exactly;
		// nothing to write.
		return st.lastIndex, nil
	}

	truncated := l < st.writeOffset
	if err := truncateAndRecoverConfig(lf, hints, st, l); err != nil {
		return 0, err
	}
	if truncated && m != nil {
		m.truncations.WithLabelValues("reconcile").Inc()
	}

	if err := appendEntries(lf, st, entries[matched:], false, doSync, m); err != nil {
		return 0, err
	}
	return st.lastIndex, nil
}

// locateReconcileStart finds the on-disk offset of the entry with index
// startIndex, using the hint cache to skip ahead. If the scan runs off the
// retained prefix before finding it, the caller should treat the remaining
// input purely as an append at the current write offset, which this
// function signals by returning st.writeOffset.
func locateReconcileStart(lf *logFile, hints *hintCache, st *tailState, startIndex uint64) (int64, error) {
	off := hints.closestForwardOffset(startIndex)
	if off > st.writeOffset {
		off = FileHeaderSize
	}

	for off < st.writeOffset {
		headerBytes := make([]byte, HeaderSize)
		if err := lf.readAt(headerBytes, off); err != nil {
			return 0, err
		}
		h, err := decodeHeader(headerBytes)
		if err != nil {
			return 0, err
		}
		if h.index == startIndex {
			return off, nil
		}
		off = nextEntryOffset(off, h.dataSize)
	}
	return st.writeOffset, nil
}

// truncateAndRecoverConfig truncates the file at l, repairing the config
// pointer if the authoritative config lived inside the truncated region,
// and recomputing last_index/last_entry from the retained tail so the state
// the caller hands to appendEntries reflects what is actually on disk
// rather than the pre-truncation value.
func truncateAndRecoverConfig(lf *logFile, hints *hintCache, st *tailState, l int64) error {
	if err := lf.truncate(l); err != nil {
		return err
	}

	if l <= FileHeaderSize {
		st.lastIndex = 0
		st.lastEntry = nil
		st.configOffset = 0
		st.config = blankConfig()
		st.writeOffset = l
		hints.reset()
		return nil
	}

	trailerBytes := make([]byte, TrailerSize)
	if err := lf.readAt(trailerBytes, l-int64(TrailerSize)); err != nil {
		return err
	}
	t, err := decodeTrailer(trailerBytes)
	if err != nil {
		return err
	}

	last, err := readEntryAt(lf, int64(t.entryStartOffset))
	if err != nil {
		return err
	}
	st.lastIndex = last.Index
	st.lastEntry = &last

	if st.configOffset >= uint64(l) {
		newOffset, newConfig, err := configFromTrailer(lf, t)
		if err != nil {
			return err
		}
		st.configOffset = newOffset
		st.config = newConfig
	}

	st.writeOffset = l
	hints.reset()
	return nil
}

// configFromTrailer resolves the config pointer recorded in a trailer that
// was already read off disk, avoiding a second read of the same trailer.
// Every trailer carries the then-current config offset, so the trailer just
// before a truncation point always names the last config still alive.
func configFromTrailer(lf *logFile, t trailer) (uint64, Config, error) {
	if t.configOffset == 0 {
		return 0, blankConfig(), nil
	}

	entry, err := readEntryAt(lf, int64(t.configOffset))
	if err != nil {
		return 0, Config{}, err
	}
	if entry.Kind != KindConfig {
		return 0, Config{}, errors.Wrapf(ErrCorrupt, "config pointer %d does not reference a config entry", t.configOffset)
	}
	return t.configOffset, Config{payload: entry.Payload, set: true}, nil
}
