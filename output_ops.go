package hgraph

import "github.com/hgraph-dev/hgraph-go/collections"

// output_ops.go layers TSOutputView's generic ApplyDelta onto the concrete
// hgraph/collections types ts_meta.go builds for each composite Kind, so a
// do_eval body mutates a TSS/TSD/TSL/TSW/REF output in its own vocabulary
// (SetAdd, MapSet, ListAppend, ...) instead of hand-rolling the Value/Delta
// plumbing spec.md §4.2 describes only in terms of storage primitives.

// Field returns a writable view onto a TSB<Schema> output's field, for
// nodes whose output is a bundle and only touch a subset of its fields per
// cycle.
func (v TSOutputView) Field(index int) TSOutputView {
	return NewTSOutputView(v.TSView.Field(index))
}

// SetAdd inserts key into a TSS<K> output, recording the insertion in this
// cycle's SetDelta. No-op if key is already a member.
func (v TSOutputView) SetAdd(key uint64) error {
	set, ok := v.value.composite.(*collections.Set[uint64])
	if !ok {
		return ErrTypeMismatch
	}
	slot, inserted := set.Insert(key)
	if !inserted {
		return nil
	}
	if tracker := v.overlay.DeltaTracker(); tracker != nil {
		tracker.OnInsert(slot)
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// SetRemove erases key from a TSS<K> output, recording the erasure. No-op if
// key is not a member.
func (v TSOutputView) SetRemove(key uint64) error {
	set, ok := v.value.composite.(*collections.Set[uint64])
	if !ok {
		return ErrTypeMismatch
	}
	slot, removed := set.Erase(key)
	if !removed {
		return nil
	}
	if tracker := v.overlay.DeltaTracker(); tracker != nil {
		tracker.OnErase(slot)
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// SetClear empties a TSS<K> output, recording the clear plus a per-slot
// erase for every live element (spec.md §4.2's "storage still fires a
// per-slot OnErase in addition to OnClear").
func (v TSOutputView) SetClear() error {
	set, ok := v.value.composite.(*collections.Set[uint64])
	if !ok {
		return ErrTypeMismatch
	}
	tracker := v.overlay.DeltaTracker()
	if tracker != nil {
		set.Each(func(_ uint64, slot collections.Slot) bool {
			tracker.OnErase(slot)
			return true
		})
	}
	set.Clear()
	if tracker != nil {
		tracker.OnClear()
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// MapSet inserts or updates keyHash→value in a TSD<K,V> output. value
// becomes the stored position directly (callers construct it against the
// dict's declared value TypeMeta); on insert it is parented under this
// output's overlay so its own modifications bubble up correctly.
func (v TSOutputView) MapSet(keyHash uint64, value *Value) error {
	m, ok := v.value.composite.(*collections.Map[uint64, posElement])
	if !ok {
		return ErrTypeMismatch
	}
	elOverlay := NewOverlay(v.overlay)
	slot, inserted := m.Set(keyHash, posElement{value: value, overlay: elOverlay})
	elOverlay.MarkModified(*v.now)
	if tracker := v.overlay.DeltaTracker(); tracker != nil {
		if inserted {
			tracker.OnInsert(slot)
		} else {
			tracker.OnUpdate(slot)
		}
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// MapErase removes keyHash from a TSD<K,V> output, recording the key hash so
// WasKeyRemoved can answer after the slot is reused. No-op if absent.
func (v TSOutputView) MapErase(keyHash uint64) error {
	m, ok := v.value.composite.(*collections.Map[uint64, posElement])
	if !ok {
		return ErrTypeMismatch
	}
	slot, present := m.Erase(keyHash)
	if !present {
		return nil
	}
	switch tracker := v.overlay.DeltaTracker().(type) {
	case *MapDelta:
		tracker.OnEraseKey(slot, keyHash)
	case Delta:
		if tracker != nil {
			tracker.OnErase(slot)
		}
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// ListAppend appends value to a TSL<T> output, recording the new index as
// touched in this cycle's ListDelta.
func (v TSOutputView) ListAppend(value *Value) error {
	list, ok := v.value.composite.(*collections.List[posElement])
	if !ok {
		return ErrTypeMismatch
	}
	elOverlay := NewOverlay(v.overlay)
	idx := list.Append(posElement{value: value, overlay: elOverlay})
	elOverlay.MarkModified(*v.now)
	if tracker := v.overlay.DeltaTracker(); tracker != nil {
		tracker.OnInsert(collections.Slot(idx))
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// ListSet overwrites the element at index in a TSL<T> output in place,
// recording the index as touched.
func (v TSOutputView) ListSet(index int, value *Value) error {
	list, ok := v.value.composite.(*collections.List[posElement])
	if !ok {
		return ErrTypeMismatch
	}
	existing, present := list.At(index)
	if !present {
		return wrapFatal(ErrInvariantViolation, "list index out of range")
	}
	if err := existing.value.Set(value); err != nil {
		return err
	}
	existing.overlay.MarkModified(*v.now)
	if tracker := v.overlay.DeltaTracker(); tracker != nil {
		tracker.OnUpdate(collections.Slot(index))
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// WindowPush pushes value into a TSW<T> output at the current cycle time,
// evicting per the window's configured retention policy.
func (v TSOutputView) WindowPush(value *Value) error {
	window, ok := v.value.composite.(*collections.Window[posElement])
	if !ok {
		return ErrTypeMismatch
	}
	elOverlay := NewOverlay(v.overlay)
	window.Push(posElement{value: value, overlay: elOverlay}, int64(*v.now))
	elOverlay.MarkModified(*v.now)
	v.overlay.MarkModified(*v.now)
	return nil
}

// RefBind binds a REF[T] output directly to token, the stable (NodeID, Path)
// identity Graph.MakeRefToken resolves.
func (v TSOutputView) RefBind(token RefToken) error {
	ref, ok := v.value.composite.(*collections.Reference)
	if !ok {
		return ErrTypeMismatch
	}
	ref.BindPeered(token)
	v.overlay.MarkModified(*v.now)
	return nil
}

// RefClear resets a REF[T] output to empty.
func (v TSOutputView) RefClear() error {
	ref, ok := v.value.composite.(*collections.Reference)
	if !ok {
		return ErrTypeMismatch
	}
	ref.Clear()
	v.overlay.MarkModified(*v.now)
	return nil
}
