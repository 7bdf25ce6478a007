package hgraph

import (
	"strconv"
	"strings"
)

// PathSegmentKind discriminates the three ways a Path can step into a
// position: a bundle field, a collection index (list/dict-by-slot/window
// element), or a dict key. Ported from the original implementation's
// short_path/fq_path split: a "short path" is cheap to carry on a hot
// navigation; hgraph keeps one representation and leans on the small-slice
// optimisation Path gives for free.
type PathSegmentKind uint8

const (
	// PathSegmentField steps into a bundle field by declared index.
	PathSegmentField PathSegmentKind = iota
	// PathSegmentIndex steps into a list/dict-by-slot/window element.
	PathSegmentIndex
	// PathSegmentKey steps into a dict by key (rendered from its hash for
	// diagnostics; the live key is not retained).
	PathSegmentKey
)

// PathSegment is one navigation step from a parent TSView to a child.
type PathSegment struct {
	Kind  PathSegmentKind
	Index int
	Name  string
}

// Path is the wiring-time-stable route from a node's TSInputRoot/output to a
// specific time-series position. It is copied by value on navigation (it is
// small — typical graphs nest a handful of levels) and used for diagnostics
// (InvariantViolation messages) and as the index path a peered Reference
// carries alongside its target NodeID.
type Path []PathSegment

// Field appends a bundle-field step and returns the extended path.
func (p Path) Field(index int, name string) Path {
	return append(append(Path(nil), p...), PathSegment{Kind: PathSegmentField, Index: index, Name: name})
}

// Index appends a collection-index step and returns the extended path.
func (p Path) Index(index int) Path {
	return append(append(Path(nil), p...), PathSegment{Kind: PathSegmentIndex, Index: index})
}

// Key appends a dict-key step and returns the extended path.
func (p Path) Key(name string) Path {
	return append(append(Path(nil), p...), PathSegment{Kind: PathSegmentKey, Name: name})
}

// String renders a dotted/bracketed diagnostic form, e.g. "in.orders[3].qty".
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch seg.Kind {
		case PathSegmentField:
			if i > 0 {
				b.WriteByte('.')
			}
			if seg.Name != "" {
				b.WriteString(seg.Name)
			} else {
				b.WriteString("_")
			}
		case PathSegmentIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		case PathSegmentKey:
			b.WriteString("{\"")
			b.WriteString(seg.Name)
			b.WriteString("\"}")
		}
	}
	if b.Len() == 0 {
		return "<root>"
	}
	return b.String()
}
