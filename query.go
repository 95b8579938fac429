package pskiplist

// Node is a read-only handle to one skip-list entry, returned by
// Locate. It exposes Data and Height but never exposes forward or
// back pointers directly, since those are internal wiring the caller
// has no business walking by hand.
type Node[T any] = node[T]

// Locate returns the predecessor of key at time t: the finite node
// with the greatest datum strictly less than key, or the −∞ sentinel
// if no such node exists. It is read-only and allocation-free beyond
// the returned handle.
//
// Locate rejects t outside [0, present] with ErrOutOfRange before any
// traversal, per spec.md §7.
func (psl *PersistentSkipList[T]) Locate(t Timestamp, key T) (*Node[T], error) {
	if err := psl.validateTime(t); err != nil {
		return nil, err
	}
	return psl.descendTo(t, key), nil
}

// FindPredecessor is an alias of Locate, named for spec.md §2's
// distinction between the low-level descent (locate) and the public
// query surface (find_predecessor) — this module keeps one
// implementation and exposes both names for callers that prefer
// either.
func (psl *PersistentSkipList[T]) FindPredecessor(t Timestamp, key T) (*Node[T], error) {
	return psl.Locate(t, key)
}

// descendTo performs the actual level-by-level descent from head_at(t),
// assuming t has already been validated.
func (psl *PersistentSkipList[T]) descendTo(t Timestamp, key T) *node[T] {
	cur := psl.negInf
	top := -1
	if head := cur.forwardAt(t); head != nil {
		top = head.size() - 1
	}
	for l := top; l >= 0; l-- {
		for {
			next := cur.forwardAtLevel(t, l)
			if next != nil && next.lt(key, psl.cmp) {
				cur = next
			} else {
				break
			}
		}
	}
	return cur
}

// Iterator produces a finite, non-restartable, ascending enumeration
// of the data live at one fixed timestamp, walking level 0 exactly as
// spec.md §6's iter_at specifies.
type Iterator[T any] struct {
	at   Timestamp
	cur  *node[T]
	done bool
}

// IterAt returns an Iterator positioned just before the smallest datum
// live at time t.
func (psl *PersistentSkipList[T]) IterAt(t Timestamp) (*Iterator[T], error) {
	if err := psl.validateTime(t); err != nil {
		return nil, err
	}
	return &Iterator[T]{at: t, cur: psl.negInf}, nil
}

// Next advances the iterator and reports the next datum in ascending
// order, or (_, false) once the +∞ sentinel is reached.
func (it *Iterator[T]) Next() (T, bool) {
	if it.done {
		var zero T
		return zero, false
	}
	next := it.cur.forwardAtLevel(it.at, 0)
	if next == nil || next.kind == kindPosInf {
		it.done = true
		var zero T
		return zero, false
	}
	it.cur = next
	return next.data, true
}

// All adapts the iterator to a range-over-func sequence for
// `for v := range it.All() { ... }` callers on Go 1.23+.
func (it *Iterator[T]) All() func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for {
			v, ok := it.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Len counts the data live at time t by walking level 0. It is
// O(n) — the structure keeps no separate live-count index, since none
// of spec.md's operations need one at any timestamp other than
// present, and even then only by way of iteration.
func (psl *PersistentSkipList[T]) Len(t Timestamp) (int, error) {
	it, err := psl.IterAt(t)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	return n, nil
}

// Height returns the number of forward-pointer levels in force at
// time t (0 for an empty list).
func (psl *PersistentSkipList[T]) Height(t Timestamp) (int, error) {
	if err := psl.validateTime(t); err != nil {
		return 0, err
	}
	head := psl.negInf.forwardAt(t)
	if head == nil {
		return 0, nil
	}
	return head.size(), nil
}
