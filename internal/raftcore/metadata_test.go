package raftcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/nullzu/raftlog/internal/mocks/raftlogmock"
)

func TestStoreLoadMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rafter_test.meta")

	voted := PeerID{Name: "peer-2", Node: "node-b"}
	m := Metadata{CurrentTerm: 7, VotedFor: &voted}

	require.NoError(t, storeMetadata(path, m))

	got, err := loadMetadata(path, FileHeaderSize, NewDiscardLogger())
	require.NoError(t, err)
	require.Equal(t, m.CurrentTerm, got.CurrentTerm)
	require.NotNil(t, got.VotedFor)
	require.Equal(t, *m.VotedFor, *got.VotedFor)
}

func TestStoreMetadataOverwriteIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rafter_test.meta")

	require.NoError(t, storeMetadata(path, Metadata{CurrentTerm: 1}))
	require.NoError(t, storeMetadata(path, Metadata{CurrentTerm: 2}))

	got, err := loadMetadata(path, FileHeaderSize, NewDiscardLogger())
	require.NoError(t, err)
	require.EqualValues(t, 2, got.CurrentTerm)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no leftover temp file from the write-then-rename")
}

func TestLoadMetadataMissingFileFreshPeerIsSilent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rafter_test.meta")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	logger := raftlogmock.NewMockLogger(ctrl)
	// No warning expected: the log itself is empty (size == FileHeaderSize).

	got, err := loadMetadata(path, FileHeaderSize, logger)
	require.NoError(t, err)
	require.Equal(t, Metadata{}, got)
}

func TestLoadMetadataMissingFilePopulatedLogWarns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rafter_test.meta")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	logger := raftlogmock.NewMockLogger(ctrl)
	logger.EXPECT().Warnf(gomock.Any(), gomock.Any()).Times(1)

	got, err := loadMetadata(path, FileHeaderSize+1000, logger)
	require.NoError(t, err)
	require.Equal(t, Metadata{}, got)
}

// A corrupt metadata file is tolerated with a warning rather than
// surfaced, since the next election step overwrites it.
func TestLoadMetadataCorruptFileWarnsAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rafter_test.meta")
	require.NoError(t, os.WriteFile(path, []byte{0xBA, 0xD0}, 0o640))

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	logger := raftlogmock.NewMockLogger(ctrl)
	logger.EXPECT().Warnf(gomock.Any(), gomock.Any()).Times(1)

	got, err := loadMetadata(path, FileHeaderSize, logger)
	require.NoError(t, err)
	require.Equal(t, Metadata{}, got)
}

func TestDecodeMetadataRejectsUnknownVersion(t *testing.T) {
	_, err := decodeMetadata([]byte{99, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	require.Error(t, err)
}
