package hgraph

import "sync"

// Pending is CommandBuffer (command_buffer.go) generalized with a type
// parameter: a buffer that accumulates edits raised while some other loop is
// iterating over the structure those edits would mutate, so that structure
// can be walked safely while growing or shrinking. BeginDrain/EndDrain bound
// one iteration; Push during that window buffers instead of mutating live
// state, same as CommandBuffer.Push deferring World mutation until
// ApplyCommands runs.
type Pending[T any] struct {
	items    []T
	draining bool
}

// NewPending constructs an empty pending buffer.
func NewPending[T any]() *Pending[T] {
	return &Pending[T]{}
}

// Draining reports whether a drain window is open; callers use this to
// decide whether to buffer an edit or apply it immediately.
func (p *Pending[T]) Draining() bool { return p.draining }

// BeginDrain opens a drain window.
func (p *Pending[T]) BeginDrain() { p.draining = true }

// EndDrain closes the drain window and returns the items queued during it,
// resetting the buffer.
func (p *Pending[T]) EndDrain() []T {
	p.draining = false
	items := p.items
	p.items = nil
	return items
}

// Push appends an item to the buffer.
func (p *Pending[T]) Push(item T) { p.items = append(p.items, item) }

// Len reports how many items are queued.
func (p *Pending[T]) Len() int { return len(p.items) }

// PendingPool reuses Pending buffers across cycles to reduce allocation,
// mirroring CommandBufferPool's sync.Pool usage.
type PendingPool[T any] struct {
	pool sync.Pool
}

// NewPendingPool constructs a pool that returns fresh Pending[T] buffers.
func NewPendingPool[T any]() *PendingPool[T] {
	p := &PendingPool[T]{}
	p.pool.New = func() any { return NewPending[T]() }
	return p
}

// Get retrieves a buffer from the pool.
func (p *PendingPool[T]) Get() *Pending[T] { return p.pool.Get().(*Pending[T]) }

// Put clears and returns a buffer to the pool.
func (p *PendingPool[T]) Put(buf *Pending[T]) {
	if buf == nil {
		return
	}
	buf.EndDrain()
	p.pool.Put(buf)
}
