package hgraph

// TSKind is the closed set of time-series shapes spec.md §3 names:
// TS, TSB, TSL, TSD, TSS, TSW, REF, SIGNAL.
type TSKind uint8

const (
	TSScalar TSKind = iota
	TSBundle
	TSList
	TSDict
	TSSet
	TSWindow
	TSRef
	TSSignal
)

func (k TSKind) String() string {
	switch k {
	case TSScalar:
		return "TS"
	case TSBundle:
		return "TSB"
	case TSList:
		return "TSL"
	case TSDict:
		return "TSD"
	case TSSet:
		return "TSS"
	case TSWindow:
		return "TSW"
	case TSRef:
		return "REF"
	case TSSignal:
		return "SIGNAL"
	default:
		return "Unknown"
	}
}

// tsField is one declared field of a TSBundle schema.
type tsField struct {
	name string
	meta *TimeSeriesMeta
}

// TimeSeriesMeta is the schema for one of the eight time-series kinds,
// describing time-series shape rather than raw value shape. It is not
// interned: each New*TSMeta call allocates a fresh schema, and
// Registry.typeMetaFor maps it onto the interned TypeMeta backing its
// storage. One schema value may be shared by every node that wires a
// position of this shape.
type TimeSeriesMeta struct {
	Kind TSKind

	// Value is the scalar/tuple leaf payload for TSScalar. Nil for the other
	// kinds (Element/MapValue/Key/Fields apply instead).
	Value *TypeMeta

	Element  *TimeSeriesMeta // TSList, TSWindow element schema; TSRef referenced schema
	MapValue *TimeSeriesMeta // TSDict value schema
	Key      *TypeMeta       // TSDict, TSSet key raw type (hashed via Ops.Hash)
	Fields   []tsField       // TSBundle, declaration order
	Window   WindowParams    // TSWindow retention policy
}

// NewScalarTSMeta wraps a scalar/tuple TypeMeta as a TS<T> schema.
func NewScalarTSMeta(value *TypeMeta) *TimeSeriesMeta {
	return &TimeSeriesMeta{Kind: TSScalar, Value: value}
}

// NewBundleTSMeta constructs a TSB<Schema> from its declared fields.
func NewBundleTSMeta(fields ...struct {
	Name string
	Meta *TimeSeriesMeta
}) *TimeSeriesMeta {
	fs := make([]tsField, len(fields))
	for i, f := range fields {
		fs[i] = tsField{name: f.Name, meta: f.Meta}
	}
	return &TimeSeriesMeta{Kind: TSBundle, Fields: fs}
}

// NewListTSMeta constructs a TSL<T> over element.
func NewListTSMeta(element *TimeSeriesMeta) *TimeSeriesMeta {
	return &TimeSeriesMeta{Kind: TSList, Element: element}
}

// NewWindowTSMeta constructs a TSW<T> over element, retained per window
// (exactly one of Size/Duration nonzero, as collections.Window requires).
func NewWindowTSMeta(element *TimeSeriesMeta, window WindowParams) *TimeSeriesMeta {
	return &TimeSeriesMeta{Kind: TSWindow, Element: element, Window: window}
}

// NewSignalTSMeta constructs a SIGNAL schema: a tick carrying no payload,
// valid the instant it is set and otherwise indistinguishable from any other
// scalar position except that do_eval never reads a value through it.
func NewSignalTSMeta() *TimeSeriesMeta {
	return &TimeSeriesMeta{Kind: TSSignal}
}

// NewSetTSMeta constructs a TSS<K> over a hashable/comparable raw key type.
func NewSetTSMeta(key *TypeMeta) *TimeSeriesMeta {
	return &TimeSeriesMeta{Kind: TSSet, Key: key}
}

// NewDictTSMeta constructs a TSD<K,V>.
func NewDictTSMeta(key *TypeMeta, value *TimeSeriesMeta) *TimeSeriesMeta {
	return &TimeSeriesMeta{Kind: TSDict, Key: key, MapValue: value}
}

// NewRefTSMeta constructs a REF[T] over the referenced schema.
func NewRefTSMeta(element *TimeSeriesMeta) *TimeSeriesMeta {
	return &TimeSeriesMeta{Kind: TSRef, Element: element}
}

// FieldIndex returns the declared index of a named bundle field, or -1.
func (m *TimeSeriesMeta) FieldIndex(name string) int {
	for i, f := range m.Fields {
		if f.name == name {
			return i
		}
	}
	return -1
}

// FieldSchema returns the i-th bundle field's schema.
func (m *TimeSeriesMeta) FieldSchema(i int) *TimeSeriesMeta { return m.Fields[i].meta }

// CollectionView is the TypedView over a non-scalar position: a thin handle
// onto the underlying hgraph/collections object (or, for DeltaValue, the
// Delta tracker) plus the TypeMeta describing its raw shape.
type CollectionView struct {
	meta *TypeMeta
	raw  any
}

// Meta returns the raw TypeMeta of the wrapped collection.
func (c CollectionView) Meta() *TypeMeta { return c.meta }

// Raw returns the underlying hgraph/collections object or Delta tracker;
// callers type-assert to the concrete type their TimeSeriesMeta names.
func (c CollectionView) Raw() any { return c.raw }

// typedView returns the read-side TypedView over v: the Value itself for
// scalar/tuple positions (it already satisfies TypedView via Meta()), or a
// CollectionView wrapping its composite backing otherwise.
func (m *TimeSeriesMeta) typedView(v *Value) TypedView {
	if v.composite == nil {
		return v
	}
	return CollectionView{meta: v.meta, raw: v.composite}
}

// deltaView returns the TypedView over tracker for collection positions;
// scalar/tuple positions never reach here (view.go short-circuits via
// overlay.DeltaTracker() == nil).
func (m *TimeSeriesMeta) deltaView(v *Value, tracker Delta) TypedView {
	return CollectionView{meta: v.meta, raw: tracker}
}

// typeMetaFor derives (and interns) the raw TypeMeta backing a
// TimeSeriesMeta's storage. Two independently-constructed TimeSeriesMeta
// trees with identical shape resolve to the same *TypeMeta pointer through
// the registry's structural interning (registry.go) — this is what lets
// Graph.Connect compare an input's and an output's schema for compatibility by
// pointer equality, without TimeSeriesMeta needing an interning tree of its
// own the way TypeMeta has.
func (r *Registry) typeMetaFor(ts *TimeSeriesMeta) *TypeMeta {
	switch ts.Kind {
	case TSScalar:
		return ts.Value
	case TSSignal:
		return r.NewScalarMeta(0, 1, Ops{}, false)
	case TSBundle:
		fields := make([]BundleField, len(ts.Fields))
		var size uintptr
		for i, f := range ts.Fields {
			ft := r.typeMetaFor(f.meta)
			fields[i] = BundleField{Name: f.name, Offset: size, Type: ft}
			if isFlatKind(ft.Kind) {
				size += ft.Size
			} else {
				size += 8
			}
		}
		return r.Register(KindBundle, size, 8, 0, Ops{}, nil, nil, nil, fields, WindowParams{})
	case TSList:
		elem := r.typeMetaFor(ts.Element)
		return r.Register(KindList, 24, 8, 0, Ops{}, elem, nil, nil, nil, WindowParams{})
	case TSWindow:
		elem := r.typeMetaFor(ts.Element)
		return r.Register(KindWindow, 24, 8, 0, Ops{}, elem, nil, nil, nil, ts.Window)
	case TSSet:
		return r.Register(KindSet, 24, 8, 0, Ops{}, ts.Key, nil, nil, nil, WindowParams{})
	case TSDict:
		mv := r.typeMetaFor(ts.MapValue)
		return r.Register(KindMap, 24, 8, 0, Ops{}, nil, ts.Key, mv, nil, WindowParams{})
	case TSRef:
		var elem *TypeMeta
		if ts.Element != nil {
			elem = r.typeMetaFor(ts.Element)
		}
		return r.Register(KindRef, 8, 8, 0, Ops{}, elem, nil, nil, nil, WindowParams{})
	default:
		return nil
	}
}
