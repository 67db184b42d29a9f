package raftcore

import (
	"github.com/google/btree"
)

// MaxHints is the hint cache's default capacity.
const MaxHints = 1000

// btreeDegree is an arbitrary, reasonable branching factor for a map this
// small; google/btree's own README uses 32 for similarly-sized workloads.
const btreeDegree = 32

// hintItem is one index->offset hint, ordered by index.
type hintItem struct {
	index  uint64
	offset int64
}

func (h hintItem) Less(than btree.Item) bool {
	return h.index < than.(hintItem).index
}

// hintCache is a bounded, ordered index->offset map used to shorten forward
// scans. It is populated only by successful GetEntry calls, never by writes
// or reconciles.
type hintCache struct {
	tree     *btree.BTree
	capacity int
	metrics  *metrics
}

func newHintCache(capacity int, m *metrics) *hintCache {
	if capacity <= 0 {
		capacity = MaxHints
	}
	return &hintCache{tree: btree.New(btreeDegree), capacity: capacity, metrics: m}
}

// insert records a new hint, evicting by decimation first if the cache is
// already at capacity.
func (h *hintCache) insert(index uint64, offset int64) {
	if h.tree.Len() >= h.capacity {
		h.evict()
	}
	h.tree.ReplaceOrInsert(hintItem{index: index, offset: offset})
}

// evict deletes every 10th entry in ascending iteration order, starting
// from the first: a deterministic decimation that frees ~10% of capacity
// per pass while keeping the surviving hints spread across the index range.
func (h *hintCache) evict() {
	victims := make([]hintItem, 0, h.tree.Len()/10+1)
	i := 0
	h.tree.Ascend(func(it btree.Item) bool {
		if i%10 == 0 {
			victims = append(victims, it.(hintItem))
		}
		i++
		return true
	})
	for _, v := range victims {
		h.tree.Delete(v)
	}
	if h.metrics != nil {
		h.metrics.hintPrunes.Inc()
	}
}

// closestForwardOffset returns the offset recorded under the greatest
// hinted key strictly less than index, or FileHeaderSize if there is none.
// The caller is responsible for never trusting an offset past the current
// write_offset.
func (h *hintCache) closestForwardOffset(index uint64) int64 {
	if index == 0 {
		return FileHeaderSize
	}
	var best hintItem
	haveBest := false
	h.tree.DescendLessOrEqual(hintItem{index: index - 1}, func(it btree.Item) bool {
		best = it.(hintItem)
		haveBest = true
		return false
	})
	if !haveBest {
		return FileHeaderSize
	}
	return best.offset
}

// reset drops all cached hints, used after a truncation invalidates
// offsets past the new write_offset.
func (h *hintCache) reset() {
	h.tree = btree.New(btreeDegree)
}

// len reports the number of cached hints, used for Stats().
func (h *hintCache) len() int {
	return h.tree.Len()
}
