package collections

import "testing"

func TestFixedWindowEvictsOldest(t *testing.T) {
	w := NewFixedWindow[int](3)
	w.Push(1, 100)
	w.Push(2, 200)
	w.Push(3, 300)
	if w.HasRemovedValue() {
		t.Fatalf("no eviction expected before the window fills")
	}

	w.Push(4, 400)
	if !w.HasRemovedValue() {
		t.Fatalf("expected eviction once size is exceeded")
	}
	if got := w.RemovedValues(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("RemovedValues() = %v, want [1]", got)
	}
	if w.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", w.Len())
	}
	first, ok := w.At(0)
	if !ok || first != 2 {
		t.Fatalf("At(0) = (%d, %v), want (2, true)", first, ok)
	}
}

func TestDurationWindowEvictsStale(t *testing.T) {
	w := NewDurationWindow[string](100)
	w.Push("a", 0)
	w.Push("b", 50)
	if w.HasRemovedValue() {
		t.Fatalf("nothing should be stale yet")
	}

	w.Push("c", 250) // a@0 and b@50 are now both >100 behind 250
	if !w.HasRemovedValue() {
		t.Fatalf("expected eviction of stale entries")
	}
	if got := w.RemovedValues(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("RemovedValues() = %v, want [a b]", got)
	}
	if w.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", w.Len())
	}
}
