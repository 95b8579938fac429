// Package pskiplist implements a partially persistent ordered
// dictionary: a skip list in which every past version remains
// queryable after later writes. Writes land only at the present
// timestamp; reads may address any timestamp t in [0, present] and
// observe exactly the structure as it existed then.
//
// The design follows Driscoll, Sarnak, Sleator and Tarjan's
// node-copying technique for partial persistence, adapted to skip
// lists: each node keeps a small, bounded change log (a
// TimeStampedArray history) of its forward pointers, and only when
// that log would overflow does an update pay for a fresh node copy,
// amortizing the cost of persistence to O(1) per update rather than
// O(log n).
//
// The structure is single-threaded: writers and readers must not run
// concurrently unless the caller supplies external synchronization.
// There is no internal locking and no I/O.
package pskiplist

import (
	"math"
	"math/rand"
)

// Comparator orders two values of T: negative if a < b, zero if equal,
// positive if a > b. Equal-under-Comparator values are treated as the
// same datum for duplicate detection.
type Comparator[T any] func(a, b T) int

// defaultMaxHeight bounds node height the way the teacher's
// MakeZeroCopySkiplist bounds its level count: a configurable cap with
// a sane fallback, rather than letting a single unlucky draw size an
// array to 65.
const defaultMaxHeight = 32

// defaultFatMultiplier is the "2h" reading of spec.md §3's
// "FAT >= 2h" fatness bound.
const defaultFatMultiplier = 2

// PersistentSkipList owns every node and TimeStampedArray it ever
// creates (the arena), the present timestamp counter, and the
// insert/remove/query algorithms. Its zero value is not ready for use;
// construct with New or NewSeeded.
type PersistentSkipList[T any] struct {
	present Timestamp

	negInf *node[T] // −∞ sentinel; forward_history doubles as head_history
	posInf *node[T] // +∞ sentinel; collects back-pointers only

	arena []*node[T] // every node ever created, finite or sentinel; owns their lifetime

	cmp           Comparator[T]
	rng           *rand.Rand
	maxHeight     int
	fatMultiplier int
}

// New constructs an empty PersistentSkipList ordered by cmp, seeded
// from a process-global (non-reproducible) random source.
func New[T any](cmp Comparator[T]) *PersistentSkipList[T] {
	return NewSeeded(cmp, rand.Int63())
}

// NewSeeded constructs an empty PersistentSkipList ordered by cmp,
// with a PRNG seeded deterministically. Per spec.md §9 ("the PSL owns
// a PRNG instance, seedable for reproducible tests"), this is the hook
// test code should use instead of relying on process-wide randomness.
func NewSeeded[T any](cmp Comparator[T], seed int64) *PersistentSkipList[T] {
	psl := &PersistentSkipList[T]{
		cmp:           cmp,
		rng:           rand.New(rand.NewSource(seed)),
		maxHeight:     defaultMaxHeight,
		fatMultiplier: defaultFatMultiplier,
	}
	psl.negInf = newSentinel[T](kindNegInf)
	psl.posInf = newSentinel[T](kindPosInf)
	psl.arena = append(psl.arena, psl.negInf, psl.posInf)
	return psl
}

// WithMaxHeight overrides the node-height cap (default 32). It must be
// called before any Insert; it is a constructor-time option, not a
// live reconfiguration.
func (psl *PersistentSkipList[T]) WithMaxHeight(h int) *PersistentSkipList[T] {
	if h > 0 {
		psl.maxHeight = h
	}
	return psl
}

// WithFatMultiplier overrides the FAT-bound multiplier (default 2,
// i.e. FAT = 2h). Exposed so tests can force the node-copying overflow
// path (spec.md §8 scenario 6) with a small history budget.
func (psl *PersistentSkipList[T]) WithFatMultiplier(m int) *PersistentSkipList[T] {
	if m > 0 {
		psl.fatMultiplier = m
	}
	return psl
}

// Present returns the latest timestamp: the only one at which
// modifications are accepted.
func (psl *PersistentSkipList[T]) Present() Timestamp { return psl.present }

// Tick advances the present by one. The current head snapshot is
// locked and a copy of it becomes the head at the new present; no
// other node is touched. OutOfRange is returned rather than silently
// wrapping once present has reached the widest representable
// timestamp (spec.md §9's "widen the counter" resolution).
func (psl *PersistentSkipList[T]) Tick() error {
	if psl.present == math.MaxInt64 {
		return ErrOutOfRange
	}
	newPresent := psl.present + 1
	es := newEditSession(psl, newPresent)
	width := 0
	if cur := psl.negInf.currentForward(); cur != nil {
		width = cur.size()
	}
	// touch() copies the current head verbatim into a fresh draft
	// timestamped at newPresent; a bare tick mutates nothing else.
	es.touch(psl.negInf, width)
	if err := es.flush(); err != nil {
		return err
	}
	psl.present = newPresent
	return nil
}

// validateTime rejects any query timestamp outside [0, present].
func (psl *PersistentSkipList[T]) validateTime(t Timestamp) error {
	if t < 0 || t > psl.present {
		return ErrOutOfRange
	}
	return nil
}

// shrinkHead drops trailing head levels left empty by a removal,
// mirroring the teacher's level-shrink after Delete
// (_examples/mattkeenan-zerocopyskiplist/zerocopyskiplist.go's
// "for sl.level > 0 && sl.header.forward[sl.level] == nil { sl.level-- }"),
// adapted to this structure's TSA-based forward arrays: a level is empty
// once the head's forward target there is +∞ (or absent) rather than nil,
// and emptiness is monotonic from the top down since a level can only be
// occupied by a node tall enough to also occupy every level below it.
//
// Called once per Remove, after its splice has been committed, so the
// shrunk draft coalesces into the same present-timestamped head entry
// rather than adding a new history entry.
func (psl *PersistentSkipList[T]) shrinkHead() error {
	cur := psl.negInf.currentForward()
	if cur == nil {
		return nil
	}
	top := cur.size() - 1
	for top >= 0 {
		target := cur.get(top)
		if target != nil && target.kind != kindPosInf {
			break
		}
		top--
	}
	newSize := top + 1
	if newSize == cur.size() {
		return nil
	}
	return psl.negInf.appendForward(copyTSA[T](psl.present, newSize, cur))
}

// overflow performs the DSST node-copying step of spec.md §4.2: n's
// forward_history has reached its FAT bound, so rather than growing it
// further, a replacement node is minted carrying exactly one forward
// TimeStampedArray (the draft that triggered the overflow), every one
// of n's current back-predecessors is redirected to point to the
// replacement instead, and n's forward_history is left untouched (only
// its present-only back-pointers are cleared) — still fully reachable
// from every historical head at its historical times, just no longer
// reachable from the present.
//
// Redirecting a predecessor is itself a forward-pointer edit, so it
// goes through the same editSession (touch), which means it is subject
// to the same FAT check and can cascade into further node-copying.
func (psl *PersistentSkipList[T]) overflow(n *node[T], draft *tsa[T], es *editSession[T]) error {
	if n.kind != kindFinite {
		return invariantViolation("node-copying invoked on a sentinel")
	}

	replacement := &node[T]{
		kind:           kindFinite,
		data:           n.data,
		height:         n.height,
		fat:            n.fat,
		forwardHistory: []*tsa[T]{draft},
	}
	for l := 0; l < draft.size(); l++ {
		if target := draft.get(l); target != nil {
			target.setBack(l, replacement)
		}
	}

	for l, pred := range n.backSnapshot() {
		if pred == nil {
			continue
		}
		predDraft := es.touch(pred, pred.forwardLen())
		if err := predDraft.set(l, replacement); err != nil {
			return err
		}
		replacement.setBack(l, pred)
		n.clearBack(l)
	}

	psl.arena = append(psl.arena, replacement)
	return nil
}

// newFiniteNode draws a height and mints a new finite node, recording
// it in the arena. It does not touch forward_history or back — callers
// wire those up via the editSession.
func (psl *PersistentSkipList[T]) newFiniteNode(data T) *node[T] {
	n := newFiniteNode[T](data, psl.maxHeight, psl.fatMultiplier, psl.rng.Uint64)
	psl.arena = append(psl.arena, n)
	return n
}
