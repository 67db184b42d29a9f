package raftcore

// seekEntry locates the entry at index via the hint cache followed by a
// forward scan, recording a fresh hint on success. It never reads past
// writeOffset, the boundary of the retained prefix.
func seekEntry(lf *logFile, hints *hintCache, m *metrics, index uint64, writeOffset int64) (Entry, bool, error) {
	off := hints.closestForwardOffset(index)
	if off > writeOffset {
		off = FileHeaderSize
	}

	var scanned int64
	for off < writeOffset {
		headerBytes := make([]byte, HeaderSize)
		if err := lf.readAt(headerBytes, off); err != nil {
			return Entry{}, false, err
		}
		h, err := decodeHeader(headerBytes)
		if err != nil {
			return Entry{}, false, err
		}
		scanned++

		if h.index == index {
			data := make([]byte, h.dataSize)
			if h.dataSize > 0 {
				if err := lf.readAt(data, off+int64(HeaderSize)); err != nil {
					return Entry{}, false, err
				}
			}
			entry, err := verifyAndBuild(h, data)
			if err != nil {
				return Entry{}, false, err
			}
			hints.insert(index, off)
			if m != nil {
				m.recordSeek(scanned)
			}
			return entry, true, nil
		}

		off = nextEntryOffset(off, h.dataSize)
	}

	if m != nil {
		m.recordSeek(scanned)
	}
	return Entry{}, false, nil
}
