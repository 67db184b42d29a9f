package raftcore

import (
	"bytes"

	units "github.com/docker/go-units"
	"github.com/pkg/errors"
)

// recoveryBlockSize is the chunk size used while scanning the log tail
// backwards for the last intact trailer.
const recoveryBlockSize = 1 << 20 // 1 MiB

// recovered is the state the scanner reconstructs from an on-disk log file.
type recovered struct {
	writeOffset      int64
	lastEntry        *Entry
	configOffset     uint64
	config           Config
	version          uint8
	truncatedGarbage bool
}

// recoverState locates the last well-formed trailer from the file tail,
// truncates any crash-time garbage suffix, and reconstructs the in-memory
// tail state. It is fail-fast on any integrity error found strictly inside
// the retained prefix.
func recoverState(lf *logFile, logger Logger) (recovered, error) {
	size, err := lf.size()
	if err != nil {
		return recovered{}, err
	}

	truncateAt, entryStart, configStart, found, err := locateLastTrailer(lf, size)
	if err != nil {
		return recovered{}, err
	}

	if !found {
		if err := bootstrapEmpty(lf); err != nil {
			return recovered{}, err
		}
		return recovered{writeOffset: FileHeaderSize, version: FileVersion}, nil
	}

	truncatedGarbage := truncateAt < size
	if truncatedGarbage {
		logger.Warnf("raftcore: discarding %s of crash-time garbage past offset %d",
			units.HumanSize(float64(size-truncateAt)), truncateAt)
		if err := lf.truncate(truncateAt); err != nil {
			return recovered{}, err
		}
	}

	lastEntry, err := readEntryAt(lf, entryStart)
	if err != nil {
		return recovered{}, errors.Wrap(err, "raftcore: recovering last entry")
	}

	version, err := lf.readFileHeader()
	if err != nil {
		return recovered{}, errors.Wrap(err, "raftcore: recovering file header")
	}

	cfg := blankConfig()
	if configStart != 0 {
		entry, err := readEntryAt(lf, int64(configStart))
		if err != nil {
			return recovered{}, errors.Wrap(err, "raftcore: recovering config entry")
		}
		if entry.Kind != KindConfig {
			return recovered{}, errors.Wrapf(ErrCorrupt, "config pointer %d does not reference a config entry", configStart)
		}
		cfg = Config{payload: entry.Payload, set: true}
	}

	return recovered{
		writeOffset:      truncateAt,
		lastEntry:        &lastEntry,
		configOffset:     configStart,
		config:           cfg,
		version:          version,
		truncatedGarbage: truncatedGarbage,
	}, nil
}

// locateLastTrailer scans the file tail backwards, block by block, for the
// rightmost magic sentinel whose trailer CRC verifies. It returns the offset
// at which the file should be truncated (the end of the last intact
// trailer), the start offset of the entry that trailer belongs to, and that
// entry's config pointer.
func locateLastTrailer(lf *logFile, size int64) (truncateAt, entryStart int64, configStart uint64, found bool, err error) {
	hi := size

	for hi > FileHeaderSize {
		blockStart := hi - recoveryBlockSize
		if blockStart < FileHeaderSize {
			blockStart = FileHeaderSize
		}

		readFrom := blockStart
		if blockStart > FileHeaderSize {
			readFrom = blockStart - 8
			if readFrom < FileHeaderSize {
				readFrom = FileHeaderSize
			}
		}

		block := make([]byte, hi-readFrom)
		if err := lf.readAt(block, readFrom); err != nil {
			return 0, 0, 0, false, err
		}

		idx := bytes.LastIndex(block, magic[:])
		if idx == -1 {
			hi = blockStart
			continue
		}

		m := readFrom + int64(idx)
		end := m + 8
		trailerStart := end - TrailerSize
		if trailerStart < FileHeaderSize {
			hi = m
			continue
		}

		trailerBytes := make([]byte, TrailerSize)
		if err := lf.readAt(trailerBytes, trailerStart); err != nil {
			return 0, 0, 0, false, err
		}

		t, derr := decodeTrailer(trailerBytes)
		if derr != nil {
			// CRC mismatch: this magic occurrence is itself garbage (or part
			// of a payload that happens to contain the sentinel). Keep
			// searching below it.
			hi = m
			continue
		}

		return end, int64(t.entryStartOffset), t.configOffset, true, nil
	}

	return 0, 0, 0, false, nil
}

// bootstrapEmpty resets the file to contain only the one-byte file header,
// used both for a brand new file and for a file with no recoverable trailer
// at all.
func bootstrapEmpty(lf *logFile) error {
	if err := lf.truncate(0); err != nil {
		return err
	}
	if err := lf.writeFileHeader(); err != nil {
		return err
	}
	return lf.sync()
}

// readEntryAt decodes the entry whose Header+Data begins at off.
func readEntryAt(lf *logFile, off int64) (Entry, error) {
	hb := make([]byte, HeaderSize)
	if err := lf.readAt(hb, off); err != nil {
		return Entry{}, err
	}
	h, err := decodeHeader(hb)
	if err != nil {
		return Entry{}, err
	}
	data := make([]byte, h.dataSize)
	if h.dataSize > 0 {
		if err := lf.readAt(data, off+int64(HeaderSize)); err != nil {
			return Entry{}, err
		}
	}
	return verifyAndBuild(h, data)
}
