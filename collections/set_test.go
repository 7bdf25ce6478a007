package collections

import "testing"

func TestSetInsertEraseCancellation(t *testing.T) {
	s := NewSet[int]()

	slot1, inserted := s.Insert(1)
	if !inserted {
		t.Fatalf("expected fresh insert of 1")
	}
	if _, inserted := s.Insert(1); inserted {
		t.Fatalf("duplicate insert of 1 should report false")
	}

	s.Insert(2)
	s.Insert(3)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	erasedSlot, erased := s.Erase(2)
	if !erased {
		t.Fatalf("expected erase of 2 to succeed")
	}
	if s.Has(2) {
		t.Fatalf("2 should no longer be a member")
	}
	if key, ok := s.KeyAt(erasedSlot); !ok || key != 2 {
		t.Fatalf("KeyAt(%d) = (%v, %v), want (2, true) within the same cycle", erasedSlot, key, ok)
	}

	if slot, ok := s.Slot(1); !ok || slot != slot1 {
		t.Fatalf("Slot(1) = (%d, %v), want (%d, true)", slot, ok, slot1)
	}

	s.DrainDeferred()
	if s.Len() != 2 {
		t.Fatalf("Len() after drain = %d, want 2", s.Len())
	}
}

func TestSetClearMarksWasCleared(t *testing.T) {
	s := NewSet[string]()
	s.Insert("a")
	s.Insert("b")

	s.Clear()
	if !s.WasCleared() {
		t.Fatalf("expected WasCleared() after Clear()")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after Clear() = %d, want 0", s.Len())
	}

	s.DrainDeferred()
	if s.WasCleared() {
		t.Fatalf("WasCleared() should reset after DrainDeferred")
	}
}

func TestSetEachVisitsOnlyLiveMembers(t *testing.T) {
	s := NewSet[int]()
	s.Insert(1)
	s.Insert(2)
	s.Erase(1)

	seen := map[int]bool{}
	s.Each(func(key int, slot Slot) bool {
		seen[key] = true
		return true
	})
	if seen[1] {
		t.Fatalf("Each visited erased key 1")
	}
	if !seen[2] {
		t.Fatalf("Each did not visit live key 2")
	}
}
