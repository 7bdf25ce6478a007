package hgraph

import "github.com/hgraph-dev/hgraph-go/collections"

// posElement pairs one composite child's Value with its own Overlay. A
// dict/list/window element can itself be an arbitrarily nested time series,
// so it needs independent modification tracking, not just storage bytes.
type posElement struct {
	value   *Value
	overlay *Overlay
}

// bundleStorage is a TSB<Schema>'s runtime backing: collections.Bundle holds
// the packed flat byte storage for scalar/tuple fields (field i's Value.buf
// aliases raw.Field(i) directly, no copy); fields with a composite type
// instead own an independently-constructed Value and always get their own
// Overlay, since any field may be independently modified.
type bundleStorage struct {
	raw    *collections.Bundle
	fields []posElement
}

// newComposite constructs the hgraph/collections backing object for a
// non-scalar TypeMeta. TimeSeriesMeta's navigation methods type-assert this
// back to the concrete collection type they expect. parent is the Overlay
// that owns this position (so a bundle's fields can bubble into it); sets,
// maps, lists and windows ignore it here since their elements are not
// constructed until insertion, at which point output_ops.go parents each
// element's Overlay under the collection's own Overlay.
func newComposite(meta *TypeMeta, parent *Overlay) any {
	switch meta.Kind {
	case KindList:
		return collections.NewList[posElement]()
	case KindWindow:
		if meta.Window.Size > 0 {
			return collections.NewFixedWindow[posElement](meta.Window.Size)
		}
		return collections.NewDurationWindow[posElement](meta.Window.Duration)
	case KindSet:
		return collections.NewSet[uint64]()
	case KindMap:
		return collections.NewMap[uint64, posElement]()
	case KindBundle:
		return newBundleStorage(meta, parent)
	case KindRef:
		return collections.NewReference()
	default:
		return nil
	}
}

// newBundleStorage builds a bundle position's fields, each under its own
// Overlay parented to parent (the bundle's own Overlay) so that per
// invariant 2 (spec.md §4.2), the bundle's last_modified_time bubbles up
// as the max of every field's.
func newBundleStorage(meta *TypeMeta, parent *Overlay) *bundleStorage {
	sizes := make([]int, len(meta.Fields))
	for i, f := range meta.Fields {
		if f.Type != nil && isFlatKind(f.Type.Kind) {
			sizes[i] = int(f.Type.Size)
		}
	}
	raw := collections.NewBundle(sizes)
	fields := make([]posElement, len(meta.Fields))
	for i, f := range meta.Fields {
		if f.Type == nil {
			continue
		}
		fieldOverlay := NewOverlay(parent)
		var fv *Value
		if isFlatKind(f.Type.Kind) {
			fv = &Value{meta: f.Type, buf: raw.Field(i)}
			if f.Type.Ops.Construct != nil {
				f.Type.Ops.Construct(fv.buf)
			}
		} else {
			fv = NewValue(f.Type, fieldOverlay)
		}
		fields[i] = posElement{value: fv, overlay: fieldOverlay}
	}
	return &bundleStorage{raw: raw, fields: fields}
}

func isFlatKind(k Kind) bool { return k == KindScalar || k == KindTuple }

// newPosElement constructs a fresh (Value, Overlay) pair for a collection
// element of elementMeta's shape, parented under parent so modification
// bubbles up to the owning collection's overlay.
func newPosElement(elementMeta *TypeMeta, parent *Overlay) posElement {
	overlay := NewOverlay(parent)
	return posElement{value: NewValue(elementMeta, overlay), overlay: overlay}
}
