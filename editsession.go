package pskiplist

// editSession batches every node whose forward pointers change within
// one logical Insert/Remove/Tick call. All of those changes are
// stamped with the same timestamp (at) and committed together via
// flush, which is what makes same-timestamp coalescing (spec.md §4.2,
// §9) and FAT-triggered node-copying (spec.md §4.2) correct: a node
// touched at three different levels during one insert accumulates all
// three edits into a single draft TimeStampedArray before anything is
// appended to its history.
type editSession[T any] struct {
	psl     *PersistentSkipList[T]
	at      Timestamp
	touched map[*node[T]]*tsa[T]
	flushed map[*node[T]]bool
	pending []*node[T]
}

func newEditSession[T any](psl *PersistentSkipList[T], at Timestamp) *editSession[T] {
	return &editSession[T]{
		psl:     psl,
		at:      at,
		touched: make(map[*node[T]]*tsa[T]),
		flushed: make(map[*node[T]]bool),
	}
}

// touch returns the mutable draft TimeStampedArray for n within this
// session, creating it on first touch by copying n's current forward
// array (or allocating fresh, all-absent slots if n has none yet).
// minLen lets callers grow the draft (used only for the −∞ sentinel,
// whose forward array widens as taller nodes are inserted); it is a
// no-op for nodes whose draft is already at least that long.
func (es *editSession[T]) touch(n *node[T], minLen int) *tsa[T] {
	if d, ok := es.touched[n]; ok {
		if d.size() < minLen {
			grown := copyTSA[T](es.at, minLen, d)
			es.touched[n] = grown
			if es.flushed[n] {
				// d is already the live last entry in n's history;
				// splice the widened copy in as its replacement.
				n.forwardHistory[len(n.forwardHistory)-1] = grown
			}
			return grown
		}
		return d
	}

	cur := n.currentForward()
	length := minLen
	if cur != nil && cur.size() > length {
		length = cur.size()
	}

	var d *tsa[T]
	if cur == nil {
		d = newTSA[T](es.at, length)
	} else {
		d = copyTSA[T](es.at, length, cur)
	}
	es.touched[n] = d
	es.pending = append(es.pending, n)
	return d
}

// flush commits every touched node's draft, in first-touched order,
// checking the FAT bound for each and performing node-copying
// (overflow) instead of a plain append where needed. Overflow can
// enqueue further work (a node's back-predecessors must be redirected,
// which may in turn overflow them); the pending slice is treated as a
// FIFO and grows during iteration until nothing new is enqueued.
func (es *editSession[T]) flush() error {
	for i := 0; i < len(es.pending); i++ {
		n := es.pending[i]
		if es.flushed[n] {
			continue
		}
		es.flushed[n] = true
		d := es.touched[n]
		if n.wouldOverflow(d) {
			if err := es.psl.overflow(n, d, es); err != nil {
				return err
			}
			continue
		}
		if err := n.appendForward(d); err != nil {
			return err
		}
	}
	return nil
}
