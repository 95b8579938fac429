package pskiplist

// Timestamp is a monotone, non-negative logical clock value. present
// starts at 0 and only ever increases by an explicit Tick.
type Timestamp int64

// tsa is a TimeStampedArray: an immutable-once-locked snapshot of one
// node's forward pointers as they stood starting at some time. A
// node's forward_history is an ordered, timestamp-increasing sequence
// of these; the interpretation of entry i is "this is the forward-
// pointer array for all times in [history[i].at, history[i+1].at)",
// with the last entry extending to +infinity until something appends a
// successor.
//
// Only the last tsa in a history may be unlocked. Locking is the signal
// that a later entry is about to be appended (or present has moved past
// it), after which its slots are frozen for good.
type tsa[T any] struct {
	at     Timestamp
	slots  []*node[T]
	locked bool
}

// newTSA builds an all-absent (nil-slot) TimeStampedArray of length h
// at time t.
func newTSA[T any](t Timestamp, h int) *tsa[T] {
	return &tsa[T]{at: t, slots: make([]*node[T], h)}
}

// copyTSA builds a fresh, unlocked TimeStampedArray at time t with the
// given length, with slots [0, other.size()) copied from other and any
// remaining slots left absent. This is used both for growing the head
// (more levels than existed before) and for per-node replacement TSAs.
func copyTSA[T any](t Timestamp, h int, other *tsa[T]) *tsa[T] {
	out := newTSA[T](t, h)
	n := other.size()
	if n > h {
		n = h
	}
	copy(out.slots, other.slots[:n])
	return out
}

// time reports the timestamp at which this snapshot becomes current.
func (a *tsa[T]) time() Timestamp { return a.at }

// size reports the number of levels this snapshot describes.
func (a *tsa[T]) size() int { return len(a.slots) }

// get returns the forward target at level l, or nil if level l is
// absent (out of range or never set).
func (a *tsa[T]) get(l int) *node[T] {
	if l < 0 || l >= len(a.slots) {
		return nil
	}
	return a.slots[l]
}

// set writes the forward target at level l. It is only permitted while
// the array is unlocked; callers must lock() before appending a
// successor TSA to the same node's history.
func (a *tsa[T]) set(l int, n *node[T]) error {
	if a.locked {
		return invariantViolation("set on locked TimeStampedArray at time %d", a.at)
	}
	if l < 0 || l >= len(a.slots) {
		return invariantViolation("level %d out of range [0,%d)", l, len(a.slots))
	}
	a.slots[l] = n
	return nil
}

// lock freezes this snapshot. Idempotent.
func (a *tsa[T]) lock() { a.locked = true }
