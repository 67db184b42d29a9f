package raftcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCheckAndAppendDivergenceTruncatesAndResetsHints covers the
// divergence branch together with the hint-cache invalidation that must
// follow any truncation (stale offsets past the new write_offset must never
// be served again).
func TestCheckAndAppendDivergenceTruncatesAndResetsHints(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := openTestCore(t, dir)

	_, err := c.Append(ctx, []Entry{NewNoOp(1), NewNoOp(1), NewNoOp(1), NewNoOp(1)})
	require.NoError(t, err)

	// Populate the hint cache by reading every entry.
	for i := uint64(1); i <= 4; i++ {
		_, _, err := c.GetEntry(i)
		require.NoError(t, err)
	}
	statsBefore, err := c.Stats()
	require.NoError(t, err)
	require.Greater(t, statsBefore.HintCount, 0)

	// Diverge at index 3 with a higher term.
	last, err := c.CheckAndAppend(ctx, []Entry{
		{Term: 5, Index: 3, Kind: KindNoOp, Payload: EmptyPayload},
	}, 3)
	require.NoError(t, err)
	require.EqualValues(t, 3, last)

	statsAfter, err := c.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, statsAfter.HintCount)

	e3, ok, err := c.GetEntry(3)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 5, e3.Term)

	_, ok, err = c.GetEntry(4)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestCheckAndAppendMultiEntryDivergenceKeepsAssignedIndices covers that
// indices carried by follower-mode entries are preserved verbatim (no
// reassignment, unlike Append).
func TestCheckAndAppendMultiEntryDivergenceKeepsAssignedIndices(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := openTestCore(t, dir)

	_, err := c.Append(ctx, []Entry{NewNoOp(1), NewNoOp(1)})
	require.NoError(t, err)

	last, err := c.CheckAndAppend(ctx, []Entry{
		{Term: 2, Index: 2, Kind: KindNoOp, Payload: EmptyPayload},
		{Term: 2, Index: 3, Kind: KindNoOp, Payload: EmptyPayload},
		{Term: 2, Index: 4, Kind: KindNoOp, Payload: EmptyPayload},
	}, 2)
	require.NoError(t, err)
	require.EqualValues(t, 4, last)

	for i := uint64(2); i <= 4; i++ {
		e, ok, err := c.GetEntry(i)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i, e.Index)
		require.EqualValues(t, 2, e.Term)
	}
}
