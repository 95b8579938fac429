package pskiplist

import "testing"

func TestNewTSA(t *testing.T) {
	ts := newTSA[int](5, 3)

	if ts.time() != 5 {
		t.Errorf("Expected time 5, got %d", ts.time())
	}
	if ts.size() != 3 {
		t.Errorf("Expected size 3, got %d", ts.size())
	}
	for l := 0; l < 3; l++ {
		if ts.get(l) != nil {
			t.Errorf("Expected slot %d to be nil, got non-nil", l)
		}
	}
}

func TestTSASetGet(t *testing.T) {
	ts := newTSA[int](0, 2)
	n := &node[int]{kind: kindFinite, data: 7}

	if err := ts.set(0, n); err != nil {
		t.Fatalf("set(0) failed: %v", err)
	}
	if got := ts.get(0); got != n {
		t.Errorf("Expected get(0) to return the set node")
	}
	if got := ts.get(1); got != nil {
		t.Errorf("Expected get(1) to be nil")
	}
}

func TestTSASetOutOfRange(t *testing.T) {
	ts := newTSA[int](0, 2)

	if err := ts.set(2, &node[int]{}); err == nil {
		t.Error("Expected set out of range to fail")
	}
	if err := ts.set(-1, &node[int]{}); err == nil {
		t.Error("Expected set with negative level to fail")
	}
}

func TestTSALocked(t *testing.T) {
	ts := newTSA[int](0, 1)
	ts.lock()

	if err := ts.set(0, &node[int]{}); err == nil {
		t.Error("Expected set on a locked TSA to fail")
	}
}

func TestCopyTSA(t *testing.T) {
	orig := newTSA[int](3, 2)
	n0 := &node[int]{kind: kindFinite, data: 1}
	n1 := &node[int]{kind: kindFinite, data: 2}
	if err := orig.set(0, n0); err != nil {
		t.Fatal(err)
	}
	if err := orig.set(1, n1); err != nil {
		t.Fatal(err)
	}

	cp := copyTSA[int](10, 4, orig)

	if cp.time() != 10 {
		t.Errorf("Expected copy time 10, got %d", cp.time())
	}
	if cp.size() != 4 {
		t.Errorf("Expected copy size 4, got %d", cp.size())
	}
	if cp.get(0) != n0 || cp.get(1) != n1 {
		t.Error("Expected copy to carry over original slots")
	}
	if cp.get(2) != nil || cp.get(3) != nil {
		t.Error("Expected grown slots to be nil")
	}

	// Mutating the copy must not affect the original.
	if err := cp.set(0, n1); err != nil {
		t.Fatal(err)
	}
	if orig.get(0) != n0 {
		t.Error("Expected original TSA to be unaffected by copy mutation")
	}
}

func TestCopyTSATruncates(t *testing.T) {
	orig := newTSA[int](0, 4)
	n := &node[int]{kind: kindFinite, data: 9}
	if err := orig.set(3, n); err != nil {
		t.Fatal(err)
	}

	cp := copyTSA[int](1, 2, orig)
	if cp.size() != 2 {
		t.Errorf("Expected truncated size 2, got %d", cp.size())
	}
}
