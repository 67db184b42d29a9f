package raftcore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Truncating the log file below write_offset by any number of bytes, then
// reopening, yields a last_index <= the previous one with all retained
// entries unchanged.
func TestTruncateBelowWriteOffsetRecoversPriorEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	peer := PeerID{Name: "test"}

	c, err := Open(dir, peer, WithFsync(false))
	require.NoError(t, err)
	_, err = c.Append(ctx, []Entry{NewNoOp(1), NewNoOp(1), NewNoOp(1)})
	require.NoError(t, err)

	second, ok, err := c.GetEntry(2)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, c.Stop(ctx))

	logPath := peer.LogPath(dir)
	fi, err := os.Stat(logPath)
	require.NoError(t, err)

	// Truncate away the third entry entirely.
	thirdFrame := frameSize(0)
	require.NoError(t, os.Truncate(logPath, fi.Size()-thirdFrame))

	c2, err := Open(dir, peer, WithFsync(false))
	require.NoError(t, err)
	defer func() { _ = c2.Stop(ctx) }()

	idx, err := c2.GetLastIndex()
	require.NoError(t, err)
	require.LessOrEqual(t, idx, uint64(3))
	require.EqualValues(t, 2, idx)

	got, ok, err := c2.GetEntry(2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second, got)
}

// TestTruncateMidEntryRecoversPreviousEntry simulates a crash that tore the
// last entry's frame: the recovery scanner must fall back to the last
// intact trailer before it.
func TestTruncateMidEntryRecoversPreviousEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	peer := PeerID{Name: "test"}

	c, err := Open(dir, peer, WithFsync(false))
	require.NoError(t, err)
	_, err = c.Append(ctx, []Entry{NewNoOp(1), NewNoOp(1)})
	require.NoError(t, err)
	require.NoError(t, c.Stop(ctx))

	logPath := peer.LogPath(dir)
	fi, err := os.Stat(logPath)
	require.NoError(t, err)

	// Chop off the back half of the last frame's trailer, as a torn write
	// would.
	require.NoError(t, os.Truncate(logPath, fi.Size()-TrailerSize/2))

	c2, err := Open(dir, peer, WithFsync(false))
	require.NoError(t, err)
	defer func() { _ = c2.Stop(ctx) }()

	idx, err := c2.GetLastIndex()
	require.NoError(t, err)
	require.EqualValues(t, 1, idx)
}

// Corrupting an interior entry (not the tail) is not silently repaired; it
// surfaces as ErrCorrupt the next time that entry is read.
func TestInteriorCorruptionIsFailFast(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	peer := PeerID{Name: "test"}

	c, err := Open(dir, peer, WithFsync(false))
	require.NoError(t, err)
	_, err = c.Append(ctx, []Entry{
		{Term: 1, Kind: KindOp, Payload: []byte("one")},
		{Term: 1, Kind: KindOp, Payload: []byte("two")},
		{Term: 1, Kind: KindOp, Payload: []byte("three")},
	})
	require.NoError(t, err)
	require.NoError(t, c.Stop(ctx))

	logPath := peer.LogPath(dir)
	f, err := os.OpenFile(logPath, os.O_RDWR, 0o640)
	require.NoError(t, err)
	// Flip a byte inside the first entry's payload, well before the tail.
	corruptOffset := int64(FileHeaderSize) + int64(HeaderSize) + 1
	_, err = f.WriteAt([]byte{0xFF}, corruptOffset)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	c2, err := Open(dir, peer, WithFsync(false))
	require.NoError(t, err)
	defer func() { _ = c2.Stop(ctx) }()

	// Open itself succeeds: recovery only decodes the last entry (and the
	// config entry, if any), not every interior entry.
	idx, err := c2.GetLastIndex()
	require.NoError(t, err)
	require.EqualValues(t, 3, idx)

	_, _, err = c2.GetEntry(1)
	require.ErrorIs(t, err, ErrCorrupt)
}

// TestEmptyFileWithNoTrailerBootstraps covers a file with bytes but no
// recoverable magic trailer anywhere: it is treated as empty.
func TestEmptyFileWithNoTrailerBootstraps(t *testing.T) {
	dir := t.TempDir()
	peer := PeerID{Name: "test"}
	logPath := peer.LogPath(dir)

	require.NoError(t, os.WriteFile(logPath, []byte{FileVersion, 1, 2, 3, 4, 5, 6, 7, 8}, 0o640))

	c, err := Open(dir, peer, WithFsync(false))
	require.NoError(t, err)
	defer func() { _ = c.Stop(context.Background()) }()

	idx, err := c.GetLastIndex()
	require.NoError(t, err)
	require.EqualValues(t, 0, idx)

	fi, err := os.Stat(logPath)
	require.NoError(t, err)
	require.EqualValues(t, FileHeaderSize, fi.Size())
}
