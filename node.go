package pskiplist

import "math/bits"

// kind distinguishes the two boundary sentinels from ordinary data
// nodes. Keeping this as an explicit tag (rather than, say, a nil data
// pointer) means ordering never has to dereference data for a
// sentinel — comparisons short-circuit on kind first.
type kind uint8

const (
	kindFinite kind = iota
	kindNegInf
	kindPosInf
)

// node is one skip-list entry: a datum (for finite nodes), a height
// fixed at creation, an append-only forward_history of TimeStampedArrays
// describing its forward pointers over time, and a present-only,
// unversioned back-pointer per level.
//
// The two sentinels (−∞ and +∞) are also represented as nodes: the
// −∞ sentinel's forward_history *is* the PSL's head history (its
// forward pointers at level l are exactly "the top of the list at
// level l"), and the +∞ sentinel collects back-pointers from whatever
// node is presently last at each level. Neither sentinel carries a
// datum. All nodes, sentinels included, live in one arena owned by the
// PersistentSkipList; back-pointers and TSA forward references are
// plain Go pointers into that arena and are never treated as owning.
type node[T any] struct {
	kind   kind
	data   T
	height int // fixed for finite nodes; unused (0) for sentinels, whose length comes from the current forward TSA

	forwardHistory []*tsa[T] // unused (nil) for +∞
	back           []*node[T] // unused (nil) for −∞

	fat int // max forward_history length before node-copying; huge for sentinels
}

// newFiniteNode draws a height from rng (capped at maxHeight) and
// returns a freshly allocated node with empty history and back arrays.
// Height is 1 + the number of trailing one-bits of a uniform random
// 64-bit word, i.e. a geometric(1/2) distribution capped by word width,
// per spec.md §3.
func newFiniteNode[T any](data T, maxHeight, fatMultiplier int, draw func() uint64) *node[T] {
	h := drawHeight(maxHeight, draw)
	return &node[T]{
		kind:   kindFinite,
		data:   data,
		height: h,
		fat:    fatOf(h, fatMultiplier),
	}
}

func drawHeight(maxHeight int, draw func() uint64) int {
	r := draw()
	h := 1 + bits.TrailingZeros64(^r)
	if h > maxHeight {
		h = maxHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}

// fatOf computes the FAT bound for a node of the given height: the
// spec allows "2h or a fixed small multiple of max height"; this module
// uses multiplier*h (2h by default, and when multiplier < 1), floored at
// 4 so small-height nodes still get a few free updates before
// node-copying kicks in.
func fatOf(height, multiplier int) int {
	if multiplier < 1 {
		multiplier = 2
	}
	f := multiplier * height
	if f < 4 {
		f = 4
	}
	return f
}

// newSentinel builds a −∞ or +∞ boundary node. Sentinels are exempt
// from node-copying: their "history" is the spine of the whole
// structure, not a per-update change log, so an effectively unbounded
// fat is used instead of special-casing overflow logic for them.
func newSentinel[T any](k kind) *node[T] {
	return &node[T]{kind: k, fat: 1 << 30}
}

// Data returns the node's datum, or the zero value and false if n is a
// boundary sentinel.
func (n *node[T]) Data() (T, bool) { return n.getData() }

// Height returns the node's forward-array length: fixed for finite
// nodes, and for the head sentinel the number of levels currently in
// force.
func (n *node[T]) Height() int { return n.getHeight() }

// getData returns the node's datum, or the zero value and false for a
// sentinel.
func (n *node[T]) getData() (T, bool) {
	if n.kind != kindFinite {
		var zero T
		return zero, false
	}
	return n.data, true
}

// getHeight returns the node's forward-array length: fixed for finite
// nodes, and for the −∞ sentinel the current number of levels in force.
func (n *node[T]) getHeight() int {
	if n.kind == kindNegInf {
		if cur := n.currentForward(); cur != nil {
			return cur.size()
		}
		return 0
	}
	return n.height
}

// currentForward returns the last (possibly unlocked) entry in
// forward_history, or nil if the node has never had forward pointers.
func (n *node[T]) currentForward() *tsa[T] {
	if len(n.forwardHistory) == 0 {
		return nil
	}
	return n.forwardHistory[len(n.forwardHistory)-1]
}

// forwardChangeIndex performs the binary search specified in spec.md
// §4.2: the largest index i with history[i].time() <= t (an exact hit
// on t resolves to that index), or -1 if no such entry exists.
func (n *node[T]) forwardChangeIndex(t Timestamp) int {
	lo, hi := 0, len(n.forwardHistory)-1
	idx := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if n.forwardHistory[mid].time() <= t {
			idx = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return idx
}

// forwardAt returns the TimeStampedArray in force at time t, or nil.
func (n *node[T]) forwardAt(t Timestamp) *tsa[T] {
	idx := n.forwardChangeIndex(t)
	if idx == -1 {
		return nil
	}
	return n.forwardHistory[idx]
}

// forwardAtLevel is forwardAt(t) followed by a level selection.
func (n *node[T]) forwardAtLevel(t Timestamp, level int) *node[T] {
	ts := n.forwardAt(t)
	if ts == nil {
		return nil
	}
	return ts.get(level)
}

// appendForward is the §4.2 append_forward contract: the monotonicity
// check, same-timestamp coalescing (replacing the last entry rather
// than growing the history), locking the superseded entry on a true
// append, and fixing up back-pointers on every level whose target
// changed. It assumes the FAT bound has already been checked by the
// caller (node-copying, when needed, happens one layer up in
// PersistentSkipList, which has the arena and can mint a replacement
// node).
func (n *node[T]) appendForward(next *tsa[T]) error {
	old := n.currentForward()
	if old != nil && next.time() < old.time() {
		return invariantViolation("forward_history timestamps must be non-decreasing (got %d after %d)", next.time(), old.time())
	}

	width := next.size()
	if old != nil && old.size() > width {
		width = old.size()
	}
	for l := 0; l < width; l++ {
		var oldTarget, newTarget *node[T]
		if old != nil {
			oldTarget = old.get(l)
		}
		newTarget = next.get(l)
		if oldTarget == newTarget {
			continue
		}
		if oldTarget != nil && oldTarget.getBack(l) == n {
			oldTarget.clearBack(l)
		}
		if newTarget != nil {
			newTarget.setBack(l, n)
		}
	}

	if old != nil && old.time() == next.time() {
		n.forwardHistory[len(n.forwardHistory)-1] = next
		return nil
	}
	if old != nil {
		old.lock()
	}
	n.forwardHistory = append(n.forwardHistory, next)
	return nil
}

// wouldOverflow reports whether appending next (as opposed to
// coalescing it into the current last entry) would push
// forward_history past this node's FAT bound.
func (n *node[T]) wouldOverflow(next *tsa[T]) bool {
	if cur := n.currentForward(); cur != nil && cur.time() == next.time() {
		return false
	}
	return len(n.forwardHistory) >= n.fat
}

// getBack, setBack and clearBack manage the present-only back-pointer
// array. Unlike forward_history, back-pointers are not versioned, so
// the slice simply grows on demand.
func (n *node[T]) getBack(level int) *node[T] {
	if level < 0 || level >= len(n.back) {
		return nil
	}
	return n.back[level]
}

func (n *node[T]) setBack(level int, p *node[T]) {
	for len(n.back) <= level {
		n.back = append(n.back, nil)
	}
	n.back[level] = p
}

func (n *node[T]) clearBack(level int) {
	if level >= 0 && level < len(n.back) {
		n.back[level] = nil
	}
}

// backSnapshot copies the current back-pointer array so callers can
// iterate it while redirecting predecessors (which mutates n.back).
func (n *node[T]) backSnapshot() []*node[T] {
	out := make([]*node[T], len(n.back))
	copy(out, n.back)
	return out
}

// forwardLen is the length a fresh draft of this node's forward array
// should have: the fixed height for finite nodes, or the current
// in-force length for the −∞ sentinel.
func (n *node[T]) forwardLen() int {
	if n.kind == kindFinite {
		return n.height
	}
	if cur := n.currentForward(); cur != nil {
		return cur.size()
	}
	return 0
}

// compareNodes orders two nodes, short-circuiting on sentinel kind
// before ever consulting cmp: −∞ < everything < +∞.
func compareNodes[T any](a, b *node[T], cmp Comparator[T]) int {
	if a == b {
		return 0
	}
	switch {
	case a.kind == kindNegInf:
		return -1
	case b.kind == kindNegInf:
		return 1
	case a.kind == kindPosInf:
		return 1
	case b.kind == kindPosInf:
		return -1
	default:
		return cmp(a.data, b.data)
	}
}

// compareNodeData orders a node against a raw datum, again
// short-circuiting sentinels: −∞ < x < +∞ for every finite x.
func compareNodeData[T any](a *node[T], d T, cmp Comparator[T]) int {
	switch a.kind {
	case kindNegInf:
		return -1
	case kindPosInf:
		return 1
	default:
		return cmp(a.data, d)
	}
}

func (n *node[T]) lt(d T, cmp Comparator[T]) bool { return compareNodeData(n, d, cmp) < 0 }
func (n *node[T]) gt(d T, cmp Comparator[T]) bool { return compareNodeData(n, d, cmp) > 0 }
func (n *node[T]) le(d T, cmp Comparator[T]) bool { return !n.gt(d, cmp) }
func (n *node[T]) ge(d T, cmp Comparator[T]) bool { return !n.lt(d, cmp) }
func (n *node[T]) eq(d T, cmp Comparator[T]) bool {
	return n.kind == kindFinite && compareNodeData(n, d, cmp) == 0
}
