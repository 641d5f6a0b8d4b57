// Package vtree maintains the preorder of a growing tree of versions,
// answering the ancestry query "does version a precede version b" in
// expected constant time.
//
// It implements the order-maintenance structure of Bender, Cole, Demaine,
// Farach-Colton and Zito: every version contributes an open and a close
// event to a doubly-linked event list kept in preorder, and every event
// carries an integer label from a dense label space so that comparing two
// versions reduces to comparing the labels of their events. When an insert
// finds no room between two adjacent labels, a hierarchically chosen window
// of the label space is relabeled, or the whole space is grown.
package vtree

import (
	"errors"
	"fmt"
	"math"
	"persist/logging"
)

var log = logging.New("vtree", "error")

// None is the reserved version key acting as the right sentinel of the
// label space. It can't be used as a version ID.
const None = math.MinInt64

// DefaultOverflowBase is the default base of the relabeling density
// thresholds. See the OverflowBase field of Tree.
const DefaultOverflowBase = 1.3

// ErrOutOfRange is returned for unknown version IDs,
// and for version IDs that can't be registered.
var ErrOutOfRange = errors.New("out of range")

// event is an entry of the preorder event list. Every version owns two
// events: an open one keyed by the version ID itself, and a close one keyed
// by its negation. The root's close event is the sentinel keyed by None.
type event struct {
	prev, next *event
	key        int64
	label      int
	open       bool
}

// Tree is the order-maintenance index over a tree of versions.
// The root version 0 is always present. Version IDs are arbitrary nonzero
// int64 values supplied by the caller, except None; because a version's
// close event is keyed by the negated ID, a version and its negation can't
// both be registered.
//
// Tree is not safe for concurrent use.
type Tree struct {
	// OverflowBase is the base T of the density thresholds T^(-level) that
	// decide whether a label window of size 2^level may be relabeled in place
	// instead of growing the whole label space. It must be strictly between
	// 1 and 2; values close to 2 make the label space grow polynomially
	// faster than the number of versions. Changing it affects only
	// performance, never query results.
	OverflowBase float64

	head     *event           // first event of the preorder list, the root's open event
	capacity int              // size of the label space, always a power of two
	labels   []int64          // label -> version key; None marks a free slot
	events   map[int64]*event // version key -> its event
}

// New creates a tree holding only the root version 0.
func New() *Tree {
	t := &Tree{OverflowBase: DefaultOverflowBase}
	t.init()
	return t
}

func (t *Tree) init() {
	t.capacity = 2
	t.labels = []int64{None, None}

	root := &event{key: 0, label: 0, open: true}
	sentinel := &event{key: None, label: t.capacity - 1}
	root.next = sentinel
	sentinel.prev = root

	t.head = root
	t.labels[0] = 0
	t.events = map[int64]*event{
		0:    root,
		None: sentinel,
	}
}

// Insert registers v as a child of parent. The new version is placed at the
// leftmost position of the parent's subtree, which keeps the event list a
// valid preorder of the version tree.
//
// It fails if parent is not a registered version, or if v is not usable as
// a version ID: zero and None are reserved, and both v and -v must be free.
func (t *Tree) Insert(v, parent int64) error {
	if v == 0 || v == None {
		return fmt.Errorf("%w: version ID %d is reserved", ErrOutOfRange, v)
	}
	if e, ok := t.events[v]; ok {
		if e.open {
			return fmt.Errorf("%w: version ID %d is already registered", ErrOutOfRange, v)
		}
		return fmt.Errorf("%w: version ID %d collides with the close event of version %d", ErrOutOfRange, v, -v)
	}
	// The close event of v would be keyed by -v.
	if _, ok := t.events[-v]; ok {
		return fmt.Errorf("%w: version ID %d conflicts with registered version %d", ErrOutOfRange, v, -v)
	}

	pe, ok := t.events[parent]
	if !ok || !pe.open {
		return fmt.Errorf("%w: unknown parent version %d", ErrOutOfRange, parent)
	}

	open := t.insertAfter(pe, v, true)
	t.allocate(open)

	closed := t.insertAfter(open, -v, false)
	t.allocate(closed)

	return nil
}

// insertAfter links a new event with the given key right after prev.
// The event has no label until allocate assigns one.
func (t *Tree) insertAfter(prev *event, key int64, open bool) *event {
	e := &event{key: key, open: open, prev: prev, next: prev.next}
	prev.next.prev = e
	prev.next = e
	t.events[key] = e
	return e
}

// unlink removes a version's two events from the event list and frees their
// labels. The remaining labels keep their order, so no relabeling is needed.
func (t *Tree) unlink(v int64) {
	for _, key := range [2]int64{v, -v} {
		e, ok := t.events[key]
		if !ok {
			continue
		}
		e.prev.next = e.next
		e.next.prev = e.prev
		t.labels[e.label] = None
		delete(t.events, key)
	}
}

// Before reports whether a precedes b in the preorder of the version tree,
// that is whether a == b or a is an ancestor of b. It is not a total order:
// for two sibling versions both Before(a, b) and Before(b, a) are false.
func (t *Tree) Before(a, b int64) (bool, error) {
	aOpen, err := t.openEvent(a)
	if err != nil {
		return false, err
	}
	bOpen, err := t.openEvent(b)
	if err != nil {
		return false, err
	}
	return aOpen.label <= bOpen.label && t.closeLabel(b) <= t.closeLabel(a), nil
}

func (t *Tree) openEvent(v int64) (*event, error) {
	e, ok := t.events[v]
	if !ok || !e.open {
		return nil, fmt.Errorf("%w: unknown version %d", ErrOutOfRange, v)
	}
	return e, nil
}

// closeLabel returns the label of the version's close event.
// The root's bracket is closed by the sentinel.
func (t *Tree) closeLabel(v int64) int {
	if v == 0 {
		return t.events[None].label
	}
	return t.events[-v].label
}

// Empty reports whether the tree holds only the root version.
func (t *Tree) Empty() bool {
	return len(t.events) == 2
}

// Len returns the number of registered versions, including the root.
func (t *Tree) Len() int {
	return len(t.events) / 2
}

// Clear resets the tree to its initial root-only state,
// shrinking the label space back to its initial capacity.
func (t *Tree) Clear() {
	t.init()
}

// Copy returns a deep copy of the tree.
func (t *Tree) Copy() *Tree {
	cpy := &Tree{
		OverflowBase: t.OverflowBase,
		capacity:     t.capacity,
		labels:       append([]int64(nil), t.labels...),
		events:       make(map[int64]*event, len(t.events)),
	}

	var tail *event
	for e := t.head; e != nil; e = e.next {
		ne := &event{key: e.key, label: e.label, open: e.open}
		if tail == nil {
			cpy.head = ne
		} else {
			tail.next = ne
			ne.prev = tail
		}
		tail = ne
		cpy.events[ne.key] = ne
	}

	return cpy
}

// Equal reports whether two trees hold the same event sequence with the
// same labels over the same label space.
func (t *Tree) Equal(other *Tree) bool {
	if t.capacity != other.capacity || len(t.events) != len(other.events) {
		return false
	}

	a, b := t.head, other.head
	for a != nil && b != nil {
		if a.key != b.key || a.label != b.label || a.open != b.open {
			return false
		}
		a, b = a.next, b.next
	}
	return a == nil && b == nil
}

// Capacity returns the current size of the label space.
// It starts at 2 and doubles on every global relabeling.
func (t *Tree) Capacity() int {
	return t.capacity
}
