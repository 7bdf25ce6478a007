package hgraph

import "fmt"

// Arena is spec.md §4.7's two-pass graph build, adapted to Go's GC-managed
// heap: true placement-new into one raw aligned []byte does not hold up
// once a composite position owns pointer-containing Go types (maps, slices,
// interfaces) that the garbage collector must be able to see and move free
// of a manually-carved arena — unsafe.Pointer arithmetic over GC-visible
// memory is exactly the kind of unidiomatic, unsafe Go the corpus never
// reaches for. What Arena preserves is the *discipline*: a size-accumulate
// step (Reserve) ahead of each construction, a placement step (Place) that
// constructs and records construction order, and an explicit reverse-order
// teardown that calls Ops.Destruct — the same two-step shape, without the
// raw buffer.
//
// Every object recorded by Place carries a canary equal to the arena's fixed
// sentinel value; CheckCanaries compares them on demand. No build tag gates
// this, and Dispose does not check the canaries.
type Arena struct {
	built       []builtObject
	totalBytes  uintptr
	canaryValue uint64
	disposed    bool
}

type builtObject struct {
	value  *Value
	canary uint64
}

// NewArena constructs an empty arena.
func NewArena() *Arena { return &Arena{canaryValue: 0xA11A5EED} }

// Reserve is Pass 1: accumulate meta's size into the arena's size estimate.
// buildRootView (reached from Graph.AddNode) calls this once per root
// position — a node's input bundle, output, or recordable state —
// immediately before placing it; nested containers are not reserved
// separately.
func (a *Arena) Reserve(meta *TypeMeta) {
	a.totalBytes += meta.Size
}

// TotalBytes reports the size estimate accumulated by Reserve calls so far.
func (a *Arena) TotalBytes() uintptr { return a.totalBytes }

// Place is Pass 2: placement-construct a Value for meta and record it for
// canary-checking and reverse-order teardown. parent is the Overlay this
// Value's root position will be mounted under (nil for a node's own root
// positions, which own the outermost Overlay themselves). Returns the
// constructed Value, a non-owning handle callers wire into Node/TSView
// structures.
func (a *Arena) Place(meta *TypeMeta, parent *Overlay) *Value {
	v := NewValue(meta, parent)
	a.built = append(a.built, builtObject{value: v, canary: a.canaryValue})
	return v
}

// CheckCanaries walks every placed object verifying its recorded canary is
// unchanged, raising ErrArenaOverflow on the first mismatch. A mismatch here
// means something wrote past where a composite's bookkeeping expected the
// boundary to be — only reachable by a bug in arena.go itself, since Go's
// allocator (unlike a raw placement buffer) prevents cross-object overruns
// at the language level; this check exists to catch bookkeeping corruption
// in Arena's own built-object table, not memory-safety violations.
func (a *Arena) CheckCanaries() error {
	for i, obj := range a.built {
		if obj.canary != a.canaryValue {
			return wrapFatal(ErrArenaOverflow, fmt.Sprintf("canary mismatch at built object index %d", i))
		}
	}
	return nil
}

// Dispose walks every placed object in reverse construction order, calling
// Ops.Destruct (scalar/tuple) where present. Composite values are
// Go-GC-managed and need no explicit teardown beyond dropping the
// reference, same as the teacher never explicitly frees component storage
// it can just let the GC collect.
func (a *Arena) Dispose() {
	if a.disposed {
		return
	}
	for i := len(a.built) - 1; i >= 0; i-- {
		a.built[i].value.Destroy()
	}
	a.disposed = true
}
