package hgraph

import "sync"

// PushInbox adapts the teacher's CommandBuffer (command_buffer.go): instead
// of buffering a single tick's deferred World mutations, it buffers
// PushCommands arriving from outside the engine goroutine and is drained
// only at cycle boundaries (spec.md §5 "Concurrency & resource model"). A
// mutex replaces CommandBuffer's lack of one, since unlike a tick-scoped
// buffer owned by one goroutine, PushInbox.Push is called from arbitrary
// producer goroutines concurrently with the engine's own drain.
type PushInbox struct {
	mu       sync.Mutex
	commands []PushCommand
	signal   chan struct{}
}

// NewPushInbox constructs an empty inbox.
func NewPushInbox() *PushInbox { return &PushInbox{signal: make(chan struct{}, 1)} }

// Push enqueues cmd for the next cycle boundary. Safe for concurrent callers.
// In real-time mode this preempts the engine's wall-clock wait (spec.md §5
// "push-node arrivals preempt the sleep by setting the push-scheduling
// flag").
func (b *PushInbox) Push(cmd PushCommand) {
	if cmd == nil {
		return
	}
	b.mu.Lock()
	b.commands = append(b.commands, cmd)
	b.mu.Unlock()
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Wake returns the channel the real-time engine loop selects on to preempt
// its wait as soon as a push arrives.
func (b *PushInbox) Wake() <-chan struct{} { return b.signal }

// NonEmpty reports whether any command is queued, without draining.
func (b *PushInbox) NonEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.commands) > 0
}

// Drain returns the queued commands and resets the inbox. Called by the
// engine loop only, at a cycle boundary.
func (b *PushInbox) Drain() []PushCommand {
	b.mu.Lock()
	drained := b.commands
	b.commands = nil
	b.mu.Unlock()
	return drained
}
