package pskiplist

import "testing"

func cmpIntTest(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func TestDrawHeight(t *testing.T) {
	tests := []struct {
		name     string
		draw     uint64
		maxLevel int
		expected int
	}{
		{"all zero bits", 0x0, 32, 1},
		{"all one bits", ^uint64(0), 32, 32},
		{"one trailing one-bit", 0b0000_0001, 32, 2},
		{"capped by maxLevel", ^uint64(0), 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := drawHeight(tt.maxLevel, func() uint64 { return tt.draw })
			if h != tt.expected {
				t.Errorf("Expected height %d, got %d", tt.expected, h)
			}
		})
	}
}

func TestFatOf(t *testing.T) {
	tests := []struct {
		height, multiplier, expected int
	}{
		{1, 2, 4}, // floored at 4
		{2, 2, 4}, // floored at 4
		{4, 2, 8},
		{10, 2, 20},
		{4, 0, 8}, // invalid multiplier defaults to 2
	}

	for _, tt := range tests {
		got := fatOf(tt.height, tt.multiplier)
		if got != tt.expected {
			t.Errorf("fatOf(%d, %d): expected %d, got %d", tt.height, tt.multiplier, tt.expected, got)
		}
	}
}

func TestNodeCompare(t *testing.T) {
	negInf := newSentinel[int](kindNegInf)
	posInf := newSentinel[int](kindPosInf)
	five := &node[int]{kind: kindFinite, data: 5}
	ten := &node[int]{kind: kindFinite, data: 10}

	if compareNodes(negInf, five, cmpIntTest) >= 0 {
		t.Error("Expected -inf to compare less than a finite node")
	}
	if compareNodes(posInf, five, cmpIntTest) <= 0 {
		t.Error("Expected +inf to compare greater than a finite node")
	}
	if compareNodes(five, ten, cmpIntTest) >= 0 {
		t.Error("Expected 5 to compare less than 10")
	}
	if compareNodes(five, five, cmpIntTest) != 0 {
		t.Error("Expected a node to compare equal to itself")
	}

	if !negInf.lt(0, cmpIntTest) {
		t.Error("Expected -inf to be less than any datum")
	}
	if !posInf.gt(0, cmpIntTest) {
		t.Error("Expected +inf to be greater than any datum")
	}
	if !five.eq(5, cmpIntTest) {
		t.Error("Expected five to equal datum 5")
	}
	if negInf.eq(5, cmpIntTest) {
		t.Error("Expected a sentinel never to equal a datum")
	}
}

func TestBackPointers(t *testing.T) {
	n := &node[int]{kind: kindFinite, data: 1}
	p0 := &node[int]{kind: kindFinite, data: 0}
	p1 := &node[int]{kind: kindFinite, data: -1}

	if got := n.getBack(0); got != nil {
		t.Error("Expected no back-pointer before any is set")
	}

	n.setBack(0, p0)
	n.setBack(2, p1)

	if n.getBack(0) != p0 {
		t.Error("Expected back-pointer at level 0 to be set")
	}
	if n.getBack(1) != nil {
		t.Error("Expected untouched level 1 back-pointer to remain nil")
	}
	if n.getBack(2) != p1 {
		t.Error("Expected back-pointer at level 2 to be set")
	}

	snap := n.backSnapshot()
	n.clearBack(0)
	if n.getBack(0) != nil {
		t.Error("Expected back-pointer to be cleared")
	}
	if snap[0] != p0 {
		t.Error("Expected snapshot to be unaffected by subsequent clear")
	}
}

func TestAppendForwardMonotonicity(t *testing.T) {
	n := &node[int]{kind: kindFinite, data: 1, height: 1}

	first := newTSA[int](0, 1)
	if err := n.appendForward(first); err != nil {
		t.Fatalf("first append failed: %v", err)
	}

	stale := newTSA[int](0, 1)
	if err := n.appendForward(stale); err != nil {
		t.Fatalf("expected same-timestamp append to coalesce, got error: %v", err)
	}

	earlier := newTSA[int](-1, 1)
	if err := n.appendForward(earlier); err == nil {
		t.Error("Expected appending an earlier timestamp to fail")
	}
}

func TestAppendForwardFixesBackPointers(t *testing.T) {
	n := &node[int]{kind: kindFinite, data: 1, height: 1}
	target := &node[int]{kind: kindFinite, data: 2}

	next := newTSA[int](0, 1)
	if err := next.set(0, target); err != nil {
		t.Fatal(err)
	}
	if err := n.appendForward(next); err != nil {
		t.Fatal(err)
	}

	if target.getBack(0) != n {
		t.Error("Expected target's back-pointer to be set to n")
	}

	other := &node[int]{kind: kindFinite, data: 3}
	replace := newTSA[int](1, 1)
	if err := replace.set(0, other); err != nil {
		t.Fatal(err)
	}
	if err := n.appendForward(replace); err != nil {
		t.Fatal(err)
	}

	if target.getBack(0) != nil {
		t.Error("Expected superseded target's back-pointer to be cleared")
	}
	if other.getBack(0) != n {
		t.Error("Expected new target's back-pointer to be set")
	}
}

func TestWouldOverflow(t *testing.T) {
	n := &node[int]{kind: kindFinite, data: 1, height: 1, fat: 2}

	first := newTSA[int](0, 1)
	if n.wouldOverflow(first) {
		t.Error("Expected first append never to overflow")
	}
	if err := n.appendForward(first); err != nil {
		t.Fatal(err)
	}

	second := newTSA[int](1, 1)
	if n.wouldOverflow(second) {
		t.Error("Expected second entry to still fit within fat=2")
	}
	if err := n.appendForward(second); err != nil {
		t.Fatal(err)
	}

	third := newTSA[int](2, 1)
	if !n.wouldOverflow(third) {
		t.Error("Expected a third distinct-timestamp entry to overflow fat=2")
	}

	sameTime := newTSA[int](1, 1)
	if n.wouldOverflow(sameTime) {
		t.Error("Expected a same-timestamp entry to coalesce, not overflow")
	}
}

func TestForwardChangeIndex(t *testing.T) {
	n := &node[int]{kind: kindFinite, data: 1, height: 1, fat: 100}

	for _, ts := range []Timestamp{0, 2, 5} {
		if err := n.appendForward(newTSA[int](ts, 1)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		t        Timestamp
		expected int
	}{
		{-1, -1},
		{0, 0},
		{1, 0},
		{2, 1},
		{4, 1},
		{5, 2},
		{100, 2},
	}

	for _, tt := range tests {
		if got := n.forwardChangeIndex(tt.t); got != tt.expected {
			t.Errorf("forwardChangeIndex(%d): expected %d, got %d", tt.t, tt.expected, got)
		}
	}
}
