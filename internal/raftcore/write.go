package raftcore

// writeEntry serializes e, folds in the config pointer update, and writes
// the Header+Data+Trailer frame at off. It returns the offset immediately
// following the new frame together with the config pointer/value in effect
// after the write; it does not fsync or mutate shared state, so both the
// leader-append and follower-reconcile paths can share it.
func writeEntry(lf *logFile, off int64, e Entry, configOffset uint64, config Config) (next int64, newConfigOffset uint64, newConfig Config, err error) {
	headerData := encodeHeaderData(e)

	newConfigOffset = configOffset
	newConfig = config
	if e.Kind == KindConfig {
		newConfigOffset = uint64(off)
		newConfig = Config{payload: e.Payload, set: true}
	}

	trailerBytes := encodeTrailer(trailer{
		configOffset:     newConfigOffset,
		entryStartOffset: uint64(off),
	})

	frame := make([]byte, 0, len(headerData)+len(trailerBytes))
	frame = append(frame, headerData...)
	frame = append(frame, trailerBytes...)

	if err := lf.writeAt(frame, off); err != nil {
		return 0, 0, Config{}, err
	}

	return off + int64(len(frame)), newConfigOffset, newConfig, nil
}

// appendEntries writes entries in order starting at st.writeOffset, folds
// each into st, and issues one fsync at the end of the batch, not per
// entry.
//
// When assignIndices is true (leader append), each entry is assigned the
// next sequential index regardless of whatever index it carries in; when
// false (follower reconcile tail), entries already carry validated indices
// and are written as-is.
func appendEntries(lf *logFile, st *tailState, entries []Entry, assignIndices, doSync bool, m *metrics) error {
	if len(entries) == 0 {
		return ErrEmptyBatch
	}

	off := st.writeOffset
	for _, e := range entries {
		if assignIndices {
			e.Index = st.lastIndex + 1
		} else {
			// Follower-mode writers must have already validated overlap and
			// truncated any divergent suffix; whatever reaches here must
			// extend the log by exactly one index.
			assertTrue(e.Index == st.lastIndex+1,
				"non-contiguous index in follower write: last_index=%d, next=%d", st.lastIndex, e.Index)
		}

		next, cfgOff, cfg, err := writeEntry(lf, off, e, st.configOffset, st.config)
		if err != nil {
			return err
		}

		off = next
		st.configOffset = cfgOff
		st.config = cfg
		st.lastIndex = e.Index
		entryCopy := e
		st.lastEntry = &entryCopy

		if m != nil {
			m.entriesWritten.Inc()
			m.bytesWritten.Add(float64(len(e.Payload)))
		}
	}
	st.writeOffset = off

	if doSync {
		if err := lf.sync(); err != nil {
			return err
		}
		if m != nil {
			m.fsyncs.Inc()
		}
	}
	if m != nil {
		m.appends.Inc()
	}
	return nil
}
