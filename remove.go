package pskiplist

// Remove deletes datum from the present version of the structure.
//
// It returns ErrAbsent, unchanged, if no equal (per the Comparator)
// datum is live at present. Otherwise it implements spec.md §4.5
// exactly as specified there (not per the original source's
// topmost-slot handling, which spec.md §9 calls out as a bug): for
// every level the removed node participates in, its back-pointer at
// that level names the unique predecessor needing a new forward
// TimeStampedArray splicing around the removed node. Because a single
// predecessor can back several of the removed node's levels at once,
// those edits go through the same editSession as Insert, coalescing
// into one history entry per predecessor (spec.md §4.2, §9).
//
// The removed node itself is never mutated: its forward_history is
// left exactly as it was, so every historical query that could already
// reach it still can. Only its back-pointers are cleared, since those
// are present-only bookkeeping and the node has no more present
// predecessors once removed.
//
// After the splice, the head is shrunk to drop any trailing levels left
// empty by the removal (shrinkHead), matching the teacher's own level-
// reduction after Delete.
func (psl *PersistentSkipList[T]) Remove(data T) error {
	target := psl.findLiveNode(data)
	if target == nil {
		return ErrAbsent
	}

	es := newEditSession(psl, psl.present)

	for l := target.height - 1; l >= 0; l-- {
		pred := target.getBack(l)
		if pred == nil {
			return invariantViolation("live node missing back-pointer at level %d", l)
		}
		succ := target.forwardAtLevel(psl.present, l)
		if succ == nil {
			succ = psl.posInf
		}
		predDraft := es.touch(pred, pred.forwardLen())
		if err := predDraft.set(l, succ); err != nil {
			return err
		}
	}

	if err := es.flush(); err != nil {
		return err
	}

	if err := psl.shrinkHead(); err != nil {
		return err
	}

	for l := 0; l < len(target.back); l++ {
		target.clearBack(l)
	}
	return nil
}

// findLiveNode returns the node presently holding datum, or nil if
// none does.
func (psl *PersistentSkipList[T]) findLiveNode(data T) *node[T] {
	headSize := psl.negInf.forwardLen()
	cur := psl.negInf
	for l := headSize - 1; l >= 0; l-- {
		for {
			next := cur.forwardAtLevel(psl.present, l)
			if next != nil && next.lt(data, psl.cmp) {
				cur = next
			} else {
				break
			}
		}
	}
	succ := cur.forwardAtLevel(psl.present, 0)
	if succ != nil && succ.eq(data, psl.cmp) {
		return succ
	}
	return nil
}
