package raftcore

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// logFile wraps the raw log file handle with the positioned read/write,
// truncate, and sync primitives the rest of the core builds on. It never
// interprets entry contents.
type logFile struct {
	f *os.File
}

func openLogFile(path string) (*logFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o640)
	if err != nil {
		return nil, errors.Wrapf(err, "raftcore: open log file %s", path)
	}
	return &logFile{f: f}, nil
}

func (lf *logFile) size() (int64, error) {
	fi, err := lf.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "raftcore: stat log file")
	}
	return fi.Size(), nil
}

// writeFileHeader writes the one-byte file header at offset 0. Called by
// bootstrapEmpty, both for a new log file and for one in which recovery
// found no intact trailer.
func (lf *logFile) writeFileHeader() error {
	return lf.writeAt([]byte{FileVersion}, 0)
}

func (lf *logFile) readFileHeader() (uint8, error) {
	var b [FileHeaderSize]byte
	if err := lf.readAt(b[:], 0); err != nil {
		return 0, err
	}
	return b[0], nil
}

// readAt reads exactly len(b) bytes at off. Running off the end of the file
// mid-frame is a fatal integrity error; any other read failure is an
// environmental error and propagates unchanged.
func (lf *logFile) readAt(b []byte, off int64) error {
	n, err := lf.f.ReadAt(b, off)
	switch {
	case err == nil || (err == io.EOF && n == len(b)):
		return nil
	case err == io.EOF:
		return errors.Wrapf(ErrCorrupt, "short read at offset %d: got %d of %d bytes", off, n, len(b))
	default:
		return errors.Wrapf(err, "raftcore: read at offset %d", off)
	}
}

func (lf *logFile) writeAt(b []byte, off int64) error {
	if _, err := lf.f.WriteAt(b, off); err != nil {
		return errors.Wrapf(err, "raftcore: write at offset %d", off)
	}
	return nil
}

func (lf *logFile) truncate(size int64) error {
	if err := lf.f.Truncate(size); err != nil {
		return errors.Wrapf(err, "raftcore: truncate to %d", size)
	}
	return nil
}

func (lf *logFile) sync() error {
	if err := lf.f.Sync(); err != nil {
		return errors.Wrap(err, "raftcore: fsync log file")
	}
	return nil
}

func (lf *logFile) close() error {
	return lf.f.Close()
}
