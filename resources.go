package hgraph

import "sync"

// Traits is a thread-safe bag of named, non-time-series values a Graph hands
// down to any node whose signature declares InjectTraits — shared lookup
// tables, scenario constants, feature flags. It is the teacher's
// resourceMap (resource_container.go) carried forward unchanged in shape:
// same Get/Set/Delete/Range contract, renamed for what it now holds.
type Traits struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewTraits constructs an empty trait bag.
func NewTraits() *Traits { return &Traits{values: make(map[string]any)} }

// Get looks up a trait by name.
func (t *Traits) Get(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[name]
	return v, ok
}

// Set installs or replaces a trait.
func (t *Traits) Set(name string, value any) {
	t.mu.Lock()
	t.values[name] = value
	t.mu.Unlock()
}

// Delete removes a trait.
func (t *Traits) Delete(name string) {
	t.mu.Lock()
	delete(t.values, name)
	t.mu.Unlock()
}

// Range iterates every trait in unspecified order, stopping early if fn
// returns false.
func (t *Traits) Range(fn func(name string, value any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for k, v := range t.values {
		if !fn(k, v) {
			return
		}
	}
}

// EngineAPI is the handle InjectEngineAPI passes into a node's do_eval: a
// narrow window onto the owning Graph for operations a node legitimately
// needs at runtime without holding a full *Graph (which would let a node
// reach into other nodes' internals the injection bitmap is meant to keep
// declared up front).
type EngineAPI struct {
	graph *Graph
}

// RequestPushScheduling sets the owning graph's push-scheduling flag, so
// SourcePush nodes are eligible in the next cycle the engine runs. It does
// not schedule a cycle: Engine.nextTime does not consult the flag.
func (a EngineAPI) RequestPushScheduling() { a.graph.clock.RequestPushScheduling() }

// NodeByName looks up a peer node by its declared signature name, for a
// node that binds a reference to a runtime-chosen target.
func (a EngineAPI) NodeByName(name string) (*Node, bool) {
	n := a.graph.findNode(name)
	return n, n != nil
}

// Now returns the owning graph's current evaluation time.
func (a EngineAPI) Now() EngineTime { return a.graph.clock.EvaluationTime() }
