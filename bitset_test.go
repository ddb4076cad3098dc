package ecs

import "testing"

func TestBitsetGetSet(t *testing.T) {
	b := NewBitset(40)
	if b.Get(5) {
		t.Fatalf("bit 5 should start clear")
	}
	b.Set(5, true)
	if !b.Get(5) {
		t.Fatalf("bit 5 should be set")
	}
	b.Set(5, false)
	if b.Get(5) {
		t.Fatalf("bit 5 should be clear again")
	}
	// exercise a bit in the second word
	b.Set(33, true)
	if !b.Get(33) {
		t.Fatalf("bit 33 should be set")
	}
}

func TestBitsetPopcountAndTruthyIndices(t *testing.T) {
	b := FromIDs(70, 0, 1, 31, 32, 69)
	if got := b.Popcount(); got != 5 {
		t.Fatalf("Popcount() = %d, want 5", got)
	}
	want := []int{0, 1, 31, 32, 69}
	got := b.TruthyIndices()
	if len(got) != len(want) {
		t.Fatalf("TruthyIndices() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TruthyIndices()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBitsetIsEmptyAndClear(t *testing.T) {
	b := NewBitset(16)
	if !b.IsEmpty() {
		t.Fatalf("fresh bitset should be empty")
	}
	b.Set(3, true)
	if b.IsEmpty() {
		t.Fatalf("bitset with a set bit should not be empty")
	}
	b.Clear()
	if !b.IsEmpty() {
		t.Fatalf("bitset should be empty after Clear")
	}
}

func TestBitsetContainsPredicates(t *testing.T) {
	all := FromIDs(8, 0, 1, 2)
	sub := FromIDs(8, 0, 2)
	other := FromIDs(8, 3, 4)

	if !all.ContainsAll(sub) {
		t.Fatalf("ContainsAll should be true for a proper subset")
	}
	if all.ContainsAll(FromIDs(8, 5)) {
		t.Fatalf("ContainsAll should be false when a bit is missing")
	}
	if !all.ContainsAny(sub) {
		t.Fatalf("ContainsAny should be true when bits overlap")
	}
	if all.ContainsAny(other) {
		t.Fatalf("ContainsAny should be false for disjoint sets")
	}
	if !all.ContainsNone(other) {
		t.Fatalf("ContainsNone should be true for disjoint sets")
	}
	if all.ContainsNone(sub) {
		t.Fatalf("ContainsNone should be false when bits overlap")
	}
}

func TestBitsetCloneIsIndependent(t *testing.T) {
	a := FromIDs(16, 1, 2)
	b := a.Clone()
	b.Set(1, false)
	if !a.Get(1) {
		t.Fatalf("mutating the clone should not affect the original")
	}
}

func TestBitsetOr(t *testing.T) {
	a := FromIDs(16, 1)
	b := FromIDs(16, 2)
	a.Or(b)
	if !a.Get(1) || !a.Get(2) {
		t.Fatalf("Or should set bits from both operands")
	}
}

func TestBitsetStringifyStableKey(t *testing.T) {
	a := FromIDs(8, 1, 3)
	b := FromIDs(8, 1, 3)
	c := FromIDs(8, 1, 4)
	if a.stringify() != b.stringify() {
		t.Fatalf("identical masks must stringify identically")
	}
	if a.stringify() == c.stringify() {
		t.Fatalf("different masks must stringify differently")
	}
}
