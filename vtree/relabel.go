package vtree

import (
	"math"

	"go.uber.org/zap"
)

// allocate assigns a label to a freshly linked event, relabeling part of the
// label space when the event's neighbors have no room between them.
//
// The event must already be linked into the list, but must not be present in
// the labels table yet, so relabeling moves only its neighbors.
func (t *Tree) allocate(e *event) {
	for {
		left := e.prev.label
		right := e.next.label

		if right-left >= 2 {
			label := left + (right-left+1)/2
			e.label = label
			t.labels[label] = e.key
			return
		}

		if !t.relabelWindow(left, right) || e.next.label-e.prev.label < 2 {
			// No window is sparse enough, or spreading the smallest sparse
			// window still couldn't open a gap at the collision point.
			t.grow()
		}
	}
}

// relabelWindow finds the smallest power-of-two aligned window of the label
// space that contains both colliding labels and whose density is below the
// threshold for its level, and spreads its occupants at equal distances.
// It reports whether such a window was found.
//
// The threshold for a window of size s is T^(-log2(s)), i.e. it decays
// geometrically per level of the window hierarchy. Larger windows therefore
// admit more occupants in absolute terms (s^(1-log2(T)) of them), which is
// what lets the hierarchy absorb repeated insertions at one point instead of
// growing the label space on every collision.
func (t *Tree) relabelWindow(left, right int) bool {
	for size, level := 2, 1; size <= t.capacity; size, level = size*2, level+1 {
		if left/size != right/size {
			continue
		}

		start := (left / size) * size
		occupied := 0
		for i := start; i < start+size; i++ {
			if t.labels[i] != None {
				occupied++
			}
		}

		density := float64(occupied) / float64(size)
		if density < math.Pow(t.OverflowBase, -float64(level)) {
			t.redistribute(start, start+size)
			log.Debug("WindowRelabeled",
				zap.Int("start", start),
				zap.Int("size", size),
				zap.Int("occupied", occupied))
			return true
		}
	}
	return false
}

// redistribute spreads the occupants of the label range [start, end) at equal
// distances, keeping their order. The sentinel slot never moves: when the
// range ends at the label-space boundary the last slot is left out.
func (t *Tree) redistribute(start, end int) {
	if end == t.capacity {
		end = t.capacity - 1
	}

	var keys []int64
	for i := start; i < end; i++ {
		if t.labels[i] != None {
			keys = append(keys, t.labels[i])
			t.labels[i] = None
		}
	}
	if len(keys) == 0 {
		return
	}

	step := (end - start) / len(keys)
	for i, key := range keys {
		label := start + i*step
		t.labels[label] = key
		t.events[key].label = label
	}
}

// grow doubles the label space and spreads all occupants at equal distances
// over it, reserving the last slot for the sentinel. The doubled space holds
// at most half as many occupants as slots, so every gap, including the one
// before the sentinel, ends up at least 2 wide and allocate can't loop.
func (t *Tree) grow() {
	var keys []int64
	for _, key := range t.labels {
		if key != None {
			keys = append(keys, key)
		}
	}

	t.capacity *= 2
	t.labels = make([]int64, t.capacity)
	for i := range t.labels {
		t.labels[i] = None
	}

	step := (t.capacity - 1) / len(keys)
	for i, key := range keys {
		label := i * step
		t.labels[label] = key
		t.events[key].label = label
	}

	t.events[None].label = t.capacity - 1

	log.Debug("LabelSpaceGrown",
		zap.Int("capacity", t.capacity),
		zap.Int("events", len(keys)+1))
}
