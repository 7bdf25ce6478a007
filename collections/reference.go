package collections

// RefKind distinguishes what a reference value currently points at.
type RefKind int

const (
	// RefEmpty is a reference bound to nothing.
	RefEmpty RefKind = iota
	// RefPeered is a reference bound directly to another time-series output.
	RefPeered
	// RefComposite is a reference over a bundle/collection of sub-references,
	// e.g. a REF[TSB] holding one reference per field.
	RefComposite
)

// Reference is the storage for a REF[T] value: either empty, a single peered
// target token, or an ordered set of composite sub-reference tokens. The
// target token itself is opaque here (an arena path/handle minted one layer
// up in the hgraph package) — this type only owns the kind discriminant and
// the slot bookkeeping for the composite case.
type Reference struct {
	kind   RefKind
	target any

	composite *List[any]
}

// NewReference constructs an empty reference.
func NewReference() *Reference { return &Reference{kind: RefEmpty} }

// Kind reports what this reference currently holds.
func (r *Reference) Kind() RefKind { return r.kind }

// Target returns the peered target, valid only when Kind() is RefPeered.
func (r *Reference) Target() any { return r.target }

// BindPeered sets this reference to point directly at target.
func (r *Reference) BindPeered(target any) {
	r.kind = RefPeered
	r.target = target
	r.composite = nil
}

// BindComposite sets this reference to an ordered list of sub-reference
// targets.
func (r *Reference) BindComposite(targets []any) {
	r.kind = RefComposite
	r.target = nil
	r.composite = NewList[any]()
	for _, t := range targets {
		r.composite.Append(t)
	}
}

// Composite returns the sub-reference targets, valid only when Kind() is
// RefComposite.
func (r *Reference) Composite() *List[any] { return r.composite }

// Clear resets this reference to empty.
func (r *Reference) Clear() {
	r.kind = RefEmpty
	r.target = nil
	r.composite = nil
}
