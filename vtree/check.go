package vtree

import (
	"fmt"

	"go.uber.org/multierr"
)

// CheckInvariants validates the internal consistency of the tree and returns
// all violations found, combined into a single error. It's meant for tests
// and debugging: a healthy tree always passes.
//
// Checked invariants:
//   - the label-space capacity is a power of two of at least 2;
//   - the event list starts with the root's open event at label 0
//     and ends with the sentinel at the last label;
//   - labels are strictly increasing along the event list;
//   - the labels table and the event list describe each other exactly;
//   - every version contributes one open and one close event.
func (t *Tree) CheckInvariants() error {
	var err error

	if t.capacity < 2 || t.capacity&(t.capacity-1) != 0 {
		err = multierr.Append(err, fmt.Errorf("capacity %d is not a power of two", t.capacity))
	}
	if len(t.labels) != t.capacity {
		err = multierr.Append(err, fmt.Errorf("labels table has %d slots, capacity is %d", len(t.labels), t.capacity))
	}

	if t.head == nil || t.head.key != 0 || !t.head.open || t.head.label != 0 {
		err = multierr.Append(err, fmt.Errorf("event list does not start with the root's open event at label 0"))
	}

	var (
		count int
		last  *event
	)
	for e := t.head; e != nil; e = e.next {
		count++

		if last != nil && e.label <= last.label {
			err = multierr.Append(err, fmt.Errorf("labels not strictly increasing: %d after %d (key %d)", e.label, last.label, e.key))
		}
		if e.prev != last {
			err = multierr.Append(err, fmt.Errorf("broken back link at key %d", e.key))
		}

		if e.label < 0 || e.label >= len(t.labels) {
			err = multierr.Append(err, fmt.Errorf("label %d of key %d is outside the label space", e.label, e.key))
		} else if e.key != None && t.labels[e.label] != e.key {
			err = multierr.Append(err, fmt.Errorf("labels table holds key %d at label %d, event list holds key %d", t.labels[e.label], e.label, e.key))
		}

		if t.events[e.key] != e {
			err = multierr.Append(err, fmt.Errorf("event with key %d is not indexed", e.key))
		}

		if e.open && e.key != 0 {
			if _, ok := t.events[-e.key]; !ok {
				err = multierr.Append(err, fmt.Errorf("version %d has no close event", e.key))
			}
		}

		last = e
	}

	if last == nil || last.key != None || last.label != t.capacity-1 {
		err = multierr.Append(err, fmt.Errorf("event list does not end with the sentinel at label %d", t.capacity-1))
	}

	if count != len(t.events) {
		err = multierr.Append(err, fmt.Errorf("event list holds %d events, index holds %d", count, len(t.events)))
	}
	if count%2 != 0 {
		err = multierr.Append(err, fmt.Errorf("odd number of events: %d", count))
	}

	occupied := 0
	for _, key := range t.labels {
		if key != None {
			occupied++
		}
	}
	// The sentinel's slot reads as free in the labels table.
	if occupied != count-1 {
		err = multierr.Append(err, fmt.Errorf("labels table has %d occupied slots for %d events", occupied, count))
	}

	return err
}
