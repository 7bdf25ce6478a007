package collections

// Bundle is a fixed-arity struct-of-fields store backing a TSB<Schema>: each
// field is a byte-offset into a single backing buffer, per the field layout
// TypeMeta.Fields describes for the bundle's TypeMeta. Unlike Set/Map/List,
// a bundle's field count and order are fixed at construction and never grow.
type Bundle struct {
	fieldOffsets []int
	buf          []byte
}

// NewBundle constructs a bundle whose fields occupy the given byte sizes, in
// order, packed contiguously into a single buffer.
func NewBundle(fieldSizes []int) *Bundle {
	offsets := make([]int, len(fieldSizes))
	total := 0
	for i, sz := range fieldSizes {
		offsets[i] = total
		total += sz
	}
	return &Bundle{fieldOffsets: offsets, buf: make([]byte, total)}
}

// FieldCount returns the number of fields.
func (b *Bundle) FieldCount() int { return len(b.fieldOffsets) }

// Field returns the byte slice backing field i.
func (b *Bundle) Field(i int) []byte {
	start := b.fieldOffsets[i]
	end := len(b.buf)
	if i+1 < len(b.fieldOffsets) {
		end = b.fieldOffsets[i+1]
	}
	return b.buf[start:end]
}
