package pskiplist

// Insert adds datum to the present version of the structure.
//
// It returns ErrDuplicate, unchanged, if an equal (per the
// Comparator) datum is already live at present. Otherwise it runs the
// insertion state machine of spec.md §4.4: locate the per-level
// predecessors of datum at present (growing the head if datum's drawn
// height exceeds every level seen so far), splice a new node in at
// each of those levels, and commit every touched node's forward
// pointers as one batch so that a node touched at several levels
// within this call coalesces into a single history entry rather than
// several (spec.md §4.2, §9).
//
// This single top-to-bottom descent, recording the rightmost
// predecessor at every level as it goes (the "update array" every
// classic skip list insert builds — see e.g. the teacher's own
// search), subsumes spec.md §4.4's separate bootstrap/grow-head/
// descend-and-splice cases: an empty list, a new node taller than
// any existing one, and an ordinary splice all fall out of the same
// loop because −∞ is itself a node in the arena, not a special case.
func (psl *PersistentSkipList[T]) Insert(data T) error {
	predecessors, headSize := psl.searchPredecessors(data)

	if headSize > 0 {
		if succ := predecessors[0].forwardAtLevel(psl.present, 0); succ != nil && succ.eq(data, psl.cmp) {
			return ErrDuplicate
		}
	}

	newNode := psl.newFiniteNode(data)
	h := newNode.height

	if h > headSize {
		grown := make([]*node[T], h)
		copy(grown, predecessors)
		for l := headSize; l < h; l++ {
			grown[l] = psl.negInf
		}
		predecessors = grown
	}

	es := newEditSession(psl, psl.present)
	newDraft := es.touch(newNode, h)

	for l := 0; l < h; l++ {
		pred := predecessors[l]
		predDraft := es.touch(pred, predDraftLen(psl, pred, h, headSize))

		oldTarget := predDraft.get(l)
		if oldTarget == nil {
			oldTarget = psl.posInf
		}
		if err := predDraft.set(l, newNode); err != nil {
			return err
		}
		if err := newDraft.set(l, oldTarget); err != nil {
			return err
		}
	}

	return es.flush()
}

// searchPredecessors descends from the head at present, recording at
// each level the rightmost node whose datum is strictly less than
// data. It returns the per-level predecessor array (length equal to
// the head's current size) and that size.
func (psl *PersistentSkipList[T]) searchPredecessors(data T) ([]*node[T], int) {
	headSize := psl.negInf.forwardLen()
	predecessors := make([]*node[T], headSize)
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
		predecessors[l] = cur
	}
	return predecessors, headSize
}

// predDraftLen is the length a predecessor's draft should be sized to:
// its own fixed height for a finite node, or the new (possibly grown)
// head size for the −∞ sentinel.
func predDraftLen[T any](psl *PersistentSkipList[T], pred *node[T], newHeadSize, oldHeadSize int) int {
	if pred == psl.negInf {
		if newHeadSize > oldHeadSize {
			return newHeadSize
		}
		return oldHeadSize
	}
	return pred.height
}
