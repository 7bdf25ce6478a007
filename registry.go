package hgraph

import "sync"

// Registry interns TypeMeta descriptors so that two identically-shaped types
// resolve to the same *TypeMeta pointer (spec.md §3's structural-interning
// invariant). The dedup-by-equality bucket is the teacher's
// ecs/storage/shared.go sharedStore.findOrCreateValueLocked pattern —
// originally used to deduplicate component values across entities — adapted
// here to deduplicate type shapes across the process, with the refcounting
// dropped: TypeMeta lifetime is the registry's lifetime, not reclaimed when
// its last reference drops.
//
// Registration takes the write lock; reads (Register's first probe, Count)
// only need the read lock,
// matching the documented precondition that registration is single-writer
// during wiring while reads may proceed concurrently at any time.
type Registry struct {
	mu      sync.RWMutex
	buckets map[uint64][]*TypeMeta
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{buckets: make(map[uint64][]*TypeMeta)}
}

// Register interns shape, returning the existing *TypeMeta if an
// identically-shaped one was already registered, or minting and storing a
// new one otherwise.
func (r *Registry) Register(kind Kind, size, align uintptr, flags Flags, ops Ops, element, key, value *TypeMeta, fields []BundleField, window WindowParams) *TypeMeta {
	s := shape{kind: kind, size: size, align: align, element: element, key: key, value: value, fields: fields, window: window}
	h := s.hash()

	r.mu.RLock()
	if existing := r.findLocked(h, s); existing != nil {
		r.mu.RUnlock()
		return existing
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check: another writer may have interned the same shape while we
	// waited for the write lock.
	if existing := r.findLocked(h, s); existing != nil {
		return existing
	}

	m := &TypeMeta{
		Kind: kind, Size: size, Alignment: align, Flags: flags, Ops: ops,
		Element: element, Key: key, Value: value, Fields: fields, Window: window,
	}
	m.shapeHash = h
	r.buckets[h] = append(r.buckets[h], m)
	return m
}

func (r *Registry) findLocked(h uint64, s shape) *TypeMeta {
	for _, candidate := range r.buckets[h] {
		if s.equalTo(candidate) {
			return candidate
		}
	}
	return nil
}

// Count returns the number of distinct interned types, for diagnostics/tests.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, b := range r.buckets {
		n += len(b)
	}
	return n
}

// NewScalarMeta is a convenience constructor for the common case of a
// trivially-copyable fixed-size scalar (int64, float64, bool, ...).
func (r *Registry) NewScalarMeta(size, align uintptr, ops Ops, numpyCompatible bool) *TypeMeta {
	flags := FlagTriviallyConstructible | FlagTriviallyDestructible | FlagTriviallyCopyable | FlagComparable
	if ops.Hash != nil {
		flags |= FlagHashable
	}
	if numpyCompatible {
		flags |= FlagNumpyCompatible
	}
	return r.Register(KindScalar, size, align, flags, ops, nil, nil, nil, nil, WindowParams{})
}
