package collections

import "testing"

func TestListAppendSetTruncate(t *testing.T) {
	l := NewList[string]()
	l.Append("a")
	l.Append("b")
	idx := l.Append("c")
	if idx != 2 {
		t.Fatalf("Append returned index %d, want 2", idx)
	}

	if !l.Set(1, "B") {
		t.Fatalf("Set(1, ...) should succeed within bounds")
	}
	if v, ok := l.At(1); !ok || v != "B" {
		t.Fatalf("At(1) = (%q, %v), want (B, true)", v, ok)
	}

	if l.Set(5, "x") {
		t.Fatalf("Set out of bounds should report false")
	}

	l.Truncate(1)
	if l.Len() != 1 {
		t.Fatalf("Len() after Truncate(1) = %d, want 1", l.Len())
	}
	if _, ok := l.At(1); ok {
		t.Fatalf("At(1) should be out of range after truncation")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len() after Clear() = %d, want 0", l.Len())
	}
}

func TestListEachStopsEarly(t *testing.T) {
	l := NewList[int]()
	l.Append(1)
	l.Append(2)
	l.Append(3)

	var visited []int
	l.Each(func(index int, value int) bool {
		visited = append(visited, value)
		return value != 2
	})
	if len(visited) != 2 || visited[1] != 2 {
		t.Fatalf("Each() visited %v, want to stop right after 2", visited)
	}
}
