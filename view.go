package hgraph

import (
	"strconv"

	"github.com/hgraph-dev/hgraph-go/collections"
)

// TypedView is the schema-interpreted read handle TSView.Value() and
// DeltaValue() hand back. *Value satisfies it directly for scalar/tuple
// positions; CollectionView (ts_meta.go) satisfies it for set/map/list/
// window/bundle/ref positions, wrapping the underlying collections object or
// Delta tracker.
type TypedView interface {
	Meta() *TypeMeta
}

func formatHash(h uint64) string { return strconv.FormatUint(h, 16) }

// TSView is the tuple (value, overlay, schema, now, path) spec.md §4.3
// describes: a lightweight, non-owning, pointer-wide-per-field handle onto
// one time-series position. It is copied by value on navigation.
type TSView struct {
	value   *Value
	overlay *Overlay
	schema  *TimeSeriesMeta
	now     *EngineTime
	path    Path
}

// NewTSView constructs a root view over value/overlay/schema, reading
// current time from now (shared with the owning Graph's clock so every view
// in a cycle agrees on "now" without recomputing it).
func NewTSView(value *Value, overlay *Overlay, schema *TimeSeriesMeta, now *EngineTime) TSView {
	return TSView{value: value, overlay: overlay, schema: schema, now: now}
}

// Value returns a typed read handle over this position's bytes.
func (v TSView) Value() TypedView { return v.schema.typedView(v.value) }

// Modified reports whether this position changed in the current cycle.
func (v TSView) Modified() bool { return v.overlay.ModifiedAt(*v.now) }

// Valid reports whether this position has ever been modified.
func (v TSView) Valid() bool { return v.overlay.Valid() }

// LastModifiedTime reads the overlay's modification stamp.
func (v TSView) LastModifiedTime() EngineTime { return v.overlay.LastModifiedTime() }

// DeltaValue returns the incremental change for the current cycle. For
// scalar and reference positions this equals Value(); for set/map/list/
// bundle positions it reads through the attached Delta.
func (v TSView) DeltaValue() TypedView {
	if v.overlay.DeltaTracker() == nil {
		return v.Value()
	}
	return v.schema.deltaView(v.value, v.overlay.DeltaTracker())
}

// Path returns the wiring-time-stable route to this position, for
// diagnostics and as the index path a peered Reference carries.
func (v TSView) Path() Path { return v.path }

// Overlay exposes the backing overlay to link.go for subscribe/unsubscribe;
// not part of the read/write contract consumers of a view use.
func (v TSView) Overlay() *Overlay { return v.overlay }

// Field navigates into a bundle field by declared index.
func (v TSView) Field(index int) TSView {
	bs := v.value.composite.(*bundleStorage)
	el := bs.fields[index]
	return TSView{
		value:   el.value,
		overlay: el.overlay,
		schema:  v.schema.FieldSchema(index),
		now:     v.now,
		path:    v.path.Field(index, v.schema.Fields[index].name),
	}
}

// Index navigates into a TSList element by position.
func (v TSView) Index(i int) TSView {
	list := v.value.composite.(*collections.List[posElement])
	el, _ := list.At(i)
	return TSView{
		value:   el.value,
		overlay: el.overlay,
		schema:  v.schema.Element,
		now:     v.now,
		path:    v.path.Index(i),
	}
}

// Element navigates into a TSWindow element, oldest-first.
func (v TSView) Element(i int) TSView {
	window := v.value.composite.(*collections.Window[posElement])
	el, _ := window.At(i)
	return TSView{
		value:   el.value,
		overlay: el.overlay,
		schema:  v.schema.Element,
		now:     v.now,
		path:    v.path.Index(i),
	}
}

// Range is a pull-style iterator over a sequence of positions, grounded on
// the original ViewRange/ViewPairRange types (view_range.h) that gave Set,
// List, Map, and Bundle iteration a single shared shape instead of one
// bespoke iterator per container. Unlike the C++ original's begin()/end()
// pair this is a single forward cursor, matching how the rest of this
// package favors an explicit next-or-done return over iterator objects.
type Range[T any] struct {
	next func() (T, bool)
}

// Next returns the next element and true, or the zero value and false once
// the range is exhausted.
func (r Range[T]) Next() (T, bool) {
	if r.next == nil {
		var zero T
		return zero, false
	}
	return r.next()
}

// ListElements returns a Range walking this TSList's elements in index
// order, without materializing a []TSView the way collecting Index(i) into
// a slice up front would.
func (v TSView) ListElements() Range[TSView] {
	list := v.value.composite.(*collections.List[posElement])
	i := 0
	return Range[TSView]{next: func() (TSView, bool) {
		if i >= list.Len() {
			return TSView{}, false
		}
		el := v.Index(i)
		i++
		return el, true
	}}
}

// WindowElements returns a Range walking this TSWindow's retained elements
// oldest-first.
func (v TSView) WindowElements() Range[TSView] {
	window := v.value.composite.(*collections.Window[posElement])
	i := 0
	return Range[TSView]{next: func() (TSView, bool) {
		if i >= window.Len() {
			return TSView{}, false
		}
		el := v.Element(i)
		i++
		return el, true
	}}
}

// Key navigates into a TSDict value by key, hashing key through keyMeta's
// Ops.Hash. Returns the zero TSView and false if key is not present.
func (v TSView) Key(keyMeta *TypeMeta, key []byte) (TSView, bool) {
	m := v.value.composite.(*collections.Map[uint64, posElement])
	h := keyMeta.Ops.Hash(key)
	el, ok := m.Get(h)
	if !ok {
		return TSView{}, false
	}
	return TSView{
		value:   el.value,
		overlay: el.overlay,
		schema:  v.schema.MapValue,
		now:     v.now,
		path:    v.path.Key(keyDiagString(keyMeta, key)),
	}, true
}

func keyDiagString(keyMeta *TypeMeta, key []byte) string {
	if keyMeta.Ops.Hash == nil {
		return "?"
	}
	return formatHash(keyMeta.Ops.Hash(key))
}

// TSInputView is a TSView with link-transparent navigation: reads
// automatically continue inside a bound output's view data when this
// position has an attached TSLink (spec.md §4.4 "Navigation transparency").
type TSInputView struct {
	TSView
	link *TSLink
}

// NewTSInputView wraps view as an input position, optionally linked.
func NewTSInputView(view TSView, link *TSLink) TSInputView {
	return TSInputView{TSView: view, link: link}
}

// Link exposes the backing TSLink for wiring-time use (Graph.Connect); not
// part of the read contract evaluation code uses.
func (v TSInputView) Link() *TSLink { return v.link }

// resolve follows this input's link (if bound) to the view it should
// actually read through, dereferencing any chain of references; an empty
// or dangling Ref along the chain is returned as the result itself.
func (v TSInputView) resolve() TSView {
	if v.link == nil || !v.link.Bound() {
		return v.TSView
	}
	target := v.link.Resolve()
	return target.output.TSView
}

// Value overrides TSView.Value to read through a bound link transparently.
func (v TSInputView) Value() TypedView { return v.resolve().Value() }

// Modified overrides TSView.Modified to read through a bound link.
func (v TSInputView) Modified() bool { return v.resolve().Modified() }

// Valid overrides TSView.Valid to read through a bound link.
func (v TSInputView) Valid() bool { return v.resolve().Valid() }

// LastModifiedTime overrides TSView.LastModifiedTime to read through a bound link.
func (v TSInputView) LastModifiedTime() EngineTime { return v.resolve().LastModifiedTime() }

// DeltaValue overrides TSView.DeltaValue to read through a bound link.
func (v TSInputView) DeltaValue() TypedView { return v.resolve().DeltaValue() }

// TSOutputView is a TSView with the write-side contract: SetValue,
// ApplyDelta, Invalidate.
type TSOutputView struct {
	TSView
}

// NewTSOutputView wraps view as an output position.
func NewTSOutputView(view TSView) TSOutputView { return TSOutputView{TSView: view} }

// SetValue writes through ops.copy_assign then marks this position (and its
// ancestors) modified at the current cycle time, fanning out notifications.
func (v TSOutputView) SetValue(src *Value) error {
	if err := v.value.Set(src); err != nil {
		return err
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// ApplyDelta performs a collection-specific partial update (insert a key,
// replace a field, push a window element) and marks this position modified,
// with the same post-conditions as SetValue.
func (v TSOutputView) ApplyDelta(apply func(value *Value, tracker Delta) error) error {
	if err := apply(v.value, v.overlay.DeltaTracker()); err != nil {
		return err
	}
	v.overlay.MarkModified(*v.now)
	return nil
}

// Invalidate resets this position's modification stamp to MinEngineTime.
// Only legal on positions that are not aggregate roots with live children;
// callers are responsible for that precondition.
func (v TSOutputView) Invalidate() { v.overlay.Invalidate() }
