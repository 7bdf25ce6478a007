package hgraph

import (
	"encoding/binary"
	"math"
)

// scalars.go mints the TypeMeta for the handful of primitive scalar shapes
// every example and test graph needs (int64, float64, bool) and the
// matching Value constructors/readers. The byte layout (fixed-width little
// endian) and the Construct/Equals/Hash vtable wiring follow the same shape
// Ops (types_meta.go) already prescribes for any trivially-copyable scalar;
// there is no ecosystem library in the pack for encoding eight bytes of a
// fixed-width integer, so this one position stays on encoding/binary and
// math.Float64bits rather than reaching for a dependency (DESIGN.md).

// Int64Meta interns the TypeMeta for a TS<int64> leaf value.
func Int64Meta(reg *Registry) *TypeMeta {
	return reg.NewScalarMeta(8, 8, Ops{
		Construct: func(dst []byte) { binary.LittleEndian.PutUint64(dst, 0) },
		Copy:      func(dst, src []byte) { copy(dst, src) },
		Equals:    func(a, b []byte) bool { return binary.LittleEndian.Uint64(a) == binary.LittleEndian.Uint64(b) },
		Hash:      func(v []byte) uint64 { return binary.LittleEndian.Uint64(v) },
	}, true)
}

// Float64Meta interns the TypeMeta for a TS<float64> leaf value.
func Float64Meta(reg *Registry) *TypeMeta {
	return reg.NewScalarMeta(8, 8, Ops{
		Construct: func(dst []byte) { binary.LittleEndian.PutUint64(dst, 0) },
		Copy:      func(dst, src []byte) { copy(dst, src) },
		Equals:    func(a, b []byte) bool { return binary.LittleEndian.Uint64(a) == binary.LittleEndian.Uint64(b) },
		Hash:      func(v []byte) uint64 { return binary.LittleEndian.Uint64(v) },
	}, true)
}

// BoolMeta interns the TypeMeta for a TS<bool> leaf value.
func BoolMeta(reg *Registry) *TypeMeta {
	return reg.NewScalarMeta(1, 1, Ops{
		Construct: func(dst []byte) { dst[0] = 0 },
		Copy:      func(dst, src []byte) { dst[0] = src[0] },
		Equals:    func(a, b []byte) bool { return a[0] == b[0] },
		Hash:      func(v []byte) uint64 { return uint64(v[0]) },
	}, false)
}

// NewInt64Value constructs a standalone Value holding n, suitable for a
// push command or an output/field SetValue call.
func NewInt64Value(reg *Registry, n int64) *Value {
	v := NewValue(Int64Meta(reg), nil)
	binary.LittleEndian.PutUint64(v.buf, uint64(n))
	return v
}

// Int64 reads a TS<int64> position's current value.
func Int64(v *Value) int64 {
	return int64(binary.LittleEndian.Uint64(v.buf))
}

// NewFloat64Value constructs a standalone Value holding f.
func NewFloat64Value(reg *Registry, f float64) *Value {
	v := NewValue(Float64Meta(reg), nil)
	binary.LittleEndian.PutUint64(v.buf, math.Float64bits(f))
	return v
}

// Float64 reads a TS<float64> position's current value.
func Float64(v *Value) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(v.buf))
}

// NewBoolValue constructs a standalone Value holding b.
func NewBoolValue(reg *Registry, b bool) *Value {
	v := NewValue(BoolMeta(reg), nil)
	if b {
		v.buf[0] = 1
	}
	return v
}

// Bool reads a TS<bool> position's current value.
func Bool(v *Value) bool { return v.buf[0] != 0 }
