package hgraph

import "github.com/hgraph-dev/hgraph-go/collections"

// Delta is the observer protocol hgraph/collections storage invokes on every
// mutation. Collections themselves stay a dumb byte-owner (SPEC_FULL.md §4);
// the wiring one layer up attaches a Delta to each set/map/list/bundle
// Overlay and calls these hooks from the corresponding Set/Map/List wrapper
// method.
type Delta interface {
	OnCapacity(n int)
	OnInsert(slot collections.Slot)
	OnErase(slot collections.Slot)
	OnUpdate(slot collections.Slot)
	OnClear()

	// Reset clears this cycle's recorded delta. Node.sweepDeltas calls it at
	// the end of every cycle in which the position ticked, so the next cycle
	// starts from an empty delta (spec.md §4.2, "Tick boundary").
	Reset()
}

// slotState is the per-slot cancellation state machine from spec.md §4.2's
// table: insert-then-erase cancels to neither; erase-then-insert settles on
// updated (not added, not removed); insert-then-update stays added-only.
type slotState uint8

const (
	stateNone slotState = iota
	stateAdded
	stateRemoved
	stateUpdated
)

func (s slotState) onInsert() slotState {
	switch s {
	case stateRemoved, stateUpdated:
		return stateUpdated
	default:
		return stateAdded
	}
}

func (s slotState) onErase() slotState {
	switch s {
	case stateAdded:
		return stateNone
	default:
		return stateRemoved
	}
}

func (s slotState) onUpdate() slotState {
	switch s {
	case stateAdded:
		return stateAdded
	default:
		return stateUpdated
	}
}

// SetDelta tracks added/removed/updated slots for a TSS<K> over one cycle.
type SetDelta struct {
	states  map[collections.Slot]slotState
	cleared bool
}

// NewSetDelta constructs an empty set delta tracker.
func NewSetDelta() *SetDelta {
	return &SetDelta{states: make(map[collections.Slot]slotState)}
}

func (d *SetDelta) OnCapacity(n int) {}

func (d *SetDelta) OnInsert(slot collections.Slot) {
	d.states[slot] = d.states[slot].onInsert()
}

func (d *SetDelta) OnErase(slot collections.Slot) {
	d.states[slot] = d.states[slot].onErase()
}

func (d *SetDelta) OnUpdate(slot collections.Slot) {
	d.states[slot] = d.states[slot].onUpdate()
}

// OnClear sets the cleared flag; per spec.md §4.2, storage still fires a
// per-slot OnErase for every live element in addition to this call.
func (d *SetDelta) OnClear() { d.cleared = true }

func (d *SetDelta) Reset() {
	d.states = make(map[collections.Slot]slotState)
	d.cleared = false
}

// Cleared reports whether Clear() was called this cycle.
func (d *SetDelta) Cleared() bool { return d.cleared }

// Added returns the slots that settled into the added state this cycle.
func (d *SetDelta) Added() []collections.Slot { return d.slotsIn(stateAdded) }

// Removed returns the slots that settled into the removed state this cycle.
func (d *SetDelta) Removed() []collections.Slot { return d.slotsIn(stateRemoved) }

// Updated returns the slots that settled into the updated state this cycle.
func (d *SetDelta) Updated() []collections.Slot { return d.slotsIn(stateUpdated) }

func (d *SetDelta) slotsIn(want slotState) []collections.Slot {
	var out []collections.Slot
	for slot, st := range d.states {
		if st == want {
			out = append(out, slot)
		}
	}
	return out
}

// MapDelta is a SetDelta plus removed-key-hash capture, giving a TSD<K,V> an
// O(1) WasKeyRemoved independent of slot reuse within the cycle.
type MapDelta struct {
	*SetDelta
	removedKeyHashes map[uint64]struct{}
}

// NewMapDelta constructs an empty map delta tracker.
func NewMapDelta() *MapDelta {
	return &MapDelta{SetDelta: NewSetDelta(), removedKeyHashes: make(map[uint64]struct{})}
}

// OnEraseKey records slot's erase and captures keyHash so WasKeyRemoved can
// answer after the slot itself has been reused. Callers must invoke this
// instead of OnErase for map erasures.
func (d *MapDelta) OnEraseKey(slot collections.Slot, keyHash uint64) {
	d.OnErase(slot)
	d.removedKeyHashes[keyHash] = struct{}{}
}

// WasKeyRemoved reports whether a key hashing to keyHash was removed this
// cycle.
func (d *MapDelta) WasKeyRemoved(keyHash uint64) bool {
	_, ok := d.removedKeyHashes[keyHash]
	return ok
}

func (d *MapDelta) Reset() {
	d.SetDelta.Reset()
	d.removedKeyHashes = make(map[uint64]struct{})
}

// childDelta tracks a modified-child index set ("delta-nav") for positional
// collections where slots are never added or removed, only their contents
// change: lists and bundles.
type childDelta struct {
	touched map[int]struct{}
}

func newChildDelta() *childDelta {
	return &childDelta{touched: make(map[int]struct{})}
}

func (d *childDelta) OnCapacity(n int) {}
func (d *childDelta) OnInsert(slot collections.Slot) { d.touched[int(slot)] = struct{}{} }
func (d *childDelta) OnErase(slot collections.Slot)  { d.touched[int(slot)] = struct{}{} }
func (d *childDelta) OnUpdate(slot collections.Slot) { d.touched[int(slot)] = struct{}{} }
func (d *childDelta) OnClear()                       {}

func (d *childDelta) Reset() { d.touched = make(map[int]struct{}) }

// ModifiedIndices returns the positions touched this cycle. Order is
// unspecified.
func (d *childDelta) ModifiedIndices() []int {
	out := make([]int, 0, len(d.touched))
	for i := range d.touched {
		out = append(out, i)
	}
	return out
}

// ListDelta tracks the modified-index set for a TSL<T>.
type ListDelta struct{ *childDelta }

// NewListDelta constructs an empty list delta tracker.
func NewListDelta() *ListDelta { return &ListDelta{childDelta: newChildDelta()} }

// BundleDelta tracks the modified-field-index set for a TSB<Schema>.
type BundleDelta struct{ *childDelta }

// NewBundleDelta constructs an empty bundle delta tracker.
func NewBundleDelta() *BundleDelta { return &BundleDelta{childDelta: newChildDelta()} }
