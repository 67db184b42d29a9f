package raftcore

import (
	"crypto/sha1" //nolint:gosec // integrity check only, not authentication.
	"encoding/binary"

	"github.com/pkg/errors"
)

// Kind distinguishes the three flavors of log entry the core persists.
type Kind uint8

const (
	// KindNoOp is a leader-asserted heartbeat entry carrying no caller payload.
	KindNoOp Kind = 0
	// KindConfig carries a caller-opaque cluster configuration payload. The
	// core tracks the byte offset of the newest one in every trailer's
	// config_offset field.
	KindConfig Kind = 1
	// KindOp carries a caller-opaque state machine command.
	KindOp Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindNoOp:
		return "noop"
	case KindConfig:
		return "config"
	case KindOp:
		return "op"
	default:
		return "unknown"
	}
}

const (
	hashSize = 20 // sha1.Size
	// FileHeaderSize is the size of the one-byte version header written at
	// offset 0 of a fresh log file.
	FileHeaderSize = 1
	// HeaderSize is the size, in bytes, of the fixed Header+Data prefix
	// (everything but the payload itself): hash(20)+kind(1)+term(8)+index(8)+data_size(4).
	HeaderSize = hashSize + 1 + 8 + 8 + 4
	// TrailerSize is the size, in bytes, of the fixed trailer following
	// every entry: crc32(4)+config_offset(8)+entry_start_offset(8)+magic(8).
	TrailerSize = 4 + 8 + 8 + 8

	// FileVersion is the only on-disk format version this implementation
	// understands.
	FileVersion uint8 = 1
)

// magic is the fixed sentinel the recovery scanner hunts for when locating
// the last intact trailer after an unclean shutdown.
var magic = [8]byte{0xFE, 0xED, 0xFE, 0xED, 0xFE, 0xED, 0xFE, 0xED}

// ErrCorrupt marks a fatal integrity error: a SHA-1 mismatch, a trailer CRC
// mismatch inside the retained prefix, an unexpected EOF inside an entry, or
// a malformed header. These abort the operation; the core never attempts to
// silently repair interior corruption.
var ErrCorrupt = errors.New("raftcore: entry failed integrity check")

// Entry is a single record in the replicated log.
type Entry struct {
	Term    uint64
	Index   uint64
	Kind    Kind
	Payload []byte
}

// EmptyPayload is the canonical empty encoding used for KindNoOp entries.
var EmptyPayload = []byte{}

// NewNoOp builds a noop entry for the given term. Its index is assigned on
// write.
func NewNoOp(term uint64) Entry {
	return Entry{Term: term, Kind: KindNoOp, Payload: EmptyPayload}
}

// nextEntryOffset computes the offset of the entry following the one
// starting at loc with the given data size.
func nextEntryOffset(loc int64, dataSize uint32) int64 {
	return loc + int64(HeaderSize) + int64(dataSize) + int64(TrailerSize)
}

// frameSize returns the total on-disk size of an encoded entry with the
// given payload length.
func frameSize(dataSize int) int64 {
	return int64(HeaderSize) + int64(dataSize) + int64(TrailerSize)
}

// encodeHeaderData serializes the Header+Data region of e: hash(20) ||
// kind(1) || term(8) || index(8) || data_size(4) || data.
func encodeHeaderData(e Entry) []byte {
	buf := make([]byte, HeaderSize+len(e.Payload))

	post := buf[hashSize:]
	post[0] = byte(e.Kind)
	binary.BigEndian.PutUint64(post[1:9], e.Term)
	binary.BigEndian.PutUint64(post[9:17], e.Index)
	binary.BigEndian.PutUint32(post[17:21], uint32(len(e.Payload)))
	copy(post[21:], e.Payload)

	sum := sha1.Sum(post) //nolint:gosec
	copy(buf[:hashSize], sum[:])

	return buf
}

// decodeHeader parses the fixed-size Header portion (without the payload)
// and returns the claimed data size so the caller can read exactly that many
// further bytes.
type header struct {
	hash     [hashSize]byte
	kind     Kind
	term     uint64
	index    uint64
	dataSize uint32
}

func decodeHeader(b []byte) (header, error) {
	if len(b) != HeaderSize {
		return header{}, errors.Wrapf(ErrCorrupt, "short header: %d bytes", len(b))
	}
	var h header
	copy(h.hash[:], b[:hashSize])
	post := b[hashSize:]
	h.kind = Kind(post[0])
	h.term = binary.BigEndian.Uint64(post[1:9])
	h.index = binary.BigEndian.Uint64(post[9:17])
	h.dataSize = binary.BigEndian.Uint32(post[17:21])
	return h, nil
}

// verifyAndBuild checks h's hash against data and, on success, returns the
// decoded Entry.
func verifyAndBuild(h header, data []byte) (Entry, error) {
	post := make([]byte, 21+len(data))
	post[0] = byte(h.kind)
	binary.BigEndian.PutUint64(post[1:9], h.term)
	binary.BigEndian.PutUint64(post[9:17], h.index)
	binary.BigEndian.PutUint32(post[17:21], uint32(len(data)))
	copy(post[21:], data)

	sum := sha1.Sum(post) //nolint:gosec
	if sum != h.hash {
		return Entry{}, errors.Wrapf(ErrCorrupt, "hash mismatch at index %d", h.index)
	}

	payload := make([]byte, len(data))
	copy(payload, data)

	return Entry{Term: h.term, Index: h.index, Kind: h.kind, Payload: payload}, nil
}

// trailer is the 28-byte record following every entry.
type trailer struct {
	crc32            uint32
	configOffset     uint64
	entryStartOffset uint64
}

func encodeTrailer(t trailer) []byte {
	buf := make([]byte, TrailerSize)
	binary.BigEndian.PutUint64(buf[4:12], t.configOffset)
	binary.BigEndian.PutUint64(buf[12:20], t.entryStartOffset)
	copy(buf[20:28], magic[:])
	binary.BigEndian.PutUint32(buf[0:4], crc32Checksum(buf[4:28]))
	return buf
}

func decodeTrailer(b []byte) (trailer, error) {
	if len(b) != TrailerSize {
		return trailer{}, errors.Wrapf(ErrCorrupt, "short trailer: %d bytes", len(b))
	}
	var t trailer
	t.crc32 = binary.BigEndian.Uint32(b[0:4])
	t.configOffset = binary.BigEndian.Uint64(b[4:12])
	t.entryStartOffset = binary.BigEndian.Uint64(b[12:20])
	if !verifyTrailerCRC(t, b[4:28]) {
		return trailer{}, errors.Wrapf(ErrCorrupt, "trailer crc mismatch")
	}
	return t, nil
}

func verifyTrailerCRC(t trailer, tail24 []byte) bool {
	return t.crc32 == crc32Checksum(tail24)
}
