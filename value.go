package hgraph

// Value owns a byte buffer sized and aligned to its TypeMeta and
// constructs/destructs its contents through the meta's Ops. Trivially
// copyable scalars bypass the vtable on the hot path (a flag check plus a
// slice copy) — ported from ecs/storage/dense.go's flat-array fast path,
// where component values were stored and copied without going through any
// interface dispatch.
type Value struct {
	meta *TypeMeta
	buf  []byte

	// composite holds the concrete hgraph/collections object (a *Set[K],
	// *Map[K,V], *List[T], *Window[T], *Reference, or the package's
	// *bundleStorage) for Kinds that are not a
	// flat byte shape. Scalars and tuples leave this nil and live in buf.
	composite any
}

// NewValue allocates and default-constructs a Value for meta. Composite
// kinds are constructed via newComposite (composite.go builds this from the
// TypeMeta's kind-specific payload); scalars go through the byte-buffer path.
// parent is the Overlay that any nested composite position (a bundle field,
// for instance) should bubble its own modifications into; it is ignored for
// scalar/tuple Values, which own no Overlay of their own.
func NewValue(meta *TypeMeta, parent *Overlay) *Value {
	if meta.Kind == KindScalar || meta.Kind == KindTuple {
		v := &Value{meta: meta, buf: make([]byte, meta.Size)}
		if meta.Ops.Construct != nil {
			meta.Ops.Construct(v.buf)
		}
		return v
	}
	return &Value{meta: meta, composite: newComposite(meta, parent)}
}

// Meta returns the owning TypeMeta.
func (v *Value) Meta() *TypeMeta { return v.meta }

// Bytes exposes the raw backing storage for scalar/tuple Values.
func (v *Value) Bytes() []byte { return v.buf }

// Composite exposes the backing hgraph/collections object for set/map/list/
// window/bundle/ref Values. Callers type-assert to the concrete collection
// type their TimeSeriesMeta expects.
func (v *Value) Composite() any { return v.composite }

// Set overwrites v's contents with src's, via the fast path when both are
// trivially copyable and otherwise through Ops.Copy.
func (v *Value) Set(src *Value) error {
	if src.meta != v.meta {
		return ErrTypeMismatch
	}
	if v.meta.Flags.Has(FlagTriviallyCopyable) {
		copy(v.buf, src.buf)
		return nil
	}
	if v.meta.Ops.Copy == nil {
		return ErrTypeMismatch
	}
	v.meta.Ops.Copy(v.buf, src.buf)
	return nil
}

// Equals compares v and other using Ops.Equals; returns (false, ErrTypeMismatch)
// when the meta lacks FlagComparable or the two values have different metas.
func (v *Value) Equals(other *Value) (bool, error) {
	if other == nil || v.meta != other.meta {
		return false, ErrTypeMismatch
	}
	if !v.meta.Flags.Has(FlagComparable) || v.meta.Ops.Equals == nil {
		return false, ErrTypeMismatch
	}
	return v.meta.Ops.Equals(v.buf, other.buf), nil
}

// Hash hashes v's contents using Ops.Hash; returns (0, ErrTypeMismatch) when
// the meta lacks FlagHashable.
func (v *Value) Hash() (uint64, error) {
	if !v.meta.Flags.Has(FlagHashable) || v.meta.Ops.Hash == nil {
		return 0, ErrTypeMismatch
	}
	return v.meta.Ops.Hash(v.buf), nil
}

// Destroy releases v's contents through Ops.Destruct, if any.
func (v *Value) Destroy() {
	if v.meta.Ops.Destruct != nil {
		v.meta.Ops.Destruct(v.buf)
	}
}
