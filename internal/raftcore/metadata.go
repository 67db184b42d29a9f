package raftcore

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
)

const metadataFormatVersion uint8 = 1

// Metadata is the small piece of peer-local state that must survive a
// crash independently of the log file: the current term and, if any, the
// candidate this peer voted for this term.
type Metadata struct {
	CurrentTerm uint64
	VotedFor    *PeerID
}

// loadMetadata reads the metadata record at path. If the file is absent, it
// returns the zero Metadata -- silently if the log itself is also empty (a
// genuinely fresh peer), or with a logged warning if the log already has
// entries, since a lost vote record is a correctness risk the operator
// should be able to see. Callers overwrite it on the next election step
// either way.
func loadMetadata(path string, logSize int64, logger Logger) (Metadata, error) {
	b, err := os.ReadFile(path) //nolint:gosec // path is derived internally from logdir+peer.
	if err != nil {
		if os.IsNotExist(err) {
			if logSize > FileHeaderSize {
				logger.Warnf("raftcore: metadata file %s missing but log has entries; "+
					"falling back to {term:0, voted_for:none} -- the next election step will overwrite it", path)
			}
			return Metadata{}, nil
		}
		return Metadata{}, errors.Wrapf(err, "raftcore: read metadata file %s", path)
	}
	m, err := decodeMetadata(b)
	if err != nil {
		logger.Warnf("raftcore: metadata file %s is corrupt (%v); "+
			"falling back to {term:0, voted_for:none} -- the next election step will overwrite it", path, err)
		return Metadata{}, nil
	}
	return m, nil
}

// storeMetadata overwrites the metadata record crash-atomically via
// write-to-temp-file-then-rename, so a reader never observes a partially
// written file.
func storeMetadata(path string, m Metadata) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrapf(err, "raftcore: create metadata dir for %s", path)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(encodeMetadata(m))); err != nil {
		return errors.Wrapf(err, "raftcore: atomically write metadata file %s", path)
	}
	return nil
}

func encodeMetadata(m Metadata) []byte {
	var buf bytes.Buffer
	buf.WriteByte(metadataFormatVersion)
	_ = binary.Write(&buf, binary.BigEndian, m.CurrentTerm)
	if m.VotedFor == nil {
		buf.WriteByte(0)
		return buf.Bytes()
	}
	buf.WriteByte(1)
	writeLenPrefixed(&buf, []byte(m.VotedFor.Name))
	writeLenPrefixed(&buf, []byte(m.VotedFor.Node))
	return buf.Bytes()
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(b)))
	buf.Write(lenBuf[:])
	buf.Write(b)
}

func decodeMetadata(b []byte) (Metadata, error) {
	r := bytes.NewReader(b)

	version, err := r.ReadByte()
	if err != nil {
		return Metadata{}, errors.Wrap(err, "raftcore: decode metadata version")
	}
	if version != metadataFormatVersion {
		return Metadata{}, errors.Errorf("raftcore: unsupported metadata format version %d", version)
	}

	var m Metadata
	if err := binary.Read(r, binary.BigEndian, &m.CurrentTerm); err != nil {
		return Metadata{}, errors.Wrap(err, "raftcore: decode metadata term")
	}

	hasVoted, err := r.ReadByte()
	if err != nil {
		return Metadata{}, errors.Wrap(err, "raftcore: decode metadata voted flag")
	}
	if hasVoted == 0 {
		return m, nil
	}

	name, err := readLenPrefixed(r)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "raftcore: decode metadata voted-for name")
	}
	node, err := readLenPrefixed(r)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "raftcore: decode metadata voted-for node")
	}
	m.VotedFor = &PeerID{Name: name, Node: node}
	return m, nil
}

func readLenPrefixed(r *bytes.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
