package hgraph

import "github.com/google/uuid"

// Logger is the ambient structured-logging contract the core depends on,
// matching the teacher's Logger interface (api.go) in shape — With/Info/
// Error — widened to a With(name) that scopes a child logger the way
// zerolog's sub-loggers do. Concrete implementations (zerolog-backed or
// otherwise) live in hgraph/observability so the core itself never imports a
// logging library directly.
type Logger interface {
	With(name string) Logger
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// NopLogger discards everything; it is the Graph default when no Logger is
// supplied via GraphOption.
type NopLogger struct{}

func (NopLogger) With(string) Logger         { return NopLogger{} }
func (NopLogger) Debug(string, ...any)       {}
func (NopLogger) Info(string, ...any)        {}
func (NopLogger) Error(string, ...any)       {}

// LifecycleObserver is the eleven-hook interface spec.md §6 names. The
// Engine holds an ordered slice of these, invoking each hook in registration
// order. Hooks are called directly: a panic raised inside an observer is not
// recovered or logged by the engine and propagates out of the Engine or Node
// method that invoked the hook.
type LifecycleObserver interface {
	OnBeforeStartGraph(g *Graph)
	OnAfterStartGraph(g *Graph)
	OnBeforeStartNode(n *Node)
	OnAfterStartNode(n *Node)
	OnBeforeGraphEvaluation(g *Graph, t EngineTime)
	OnAfterGraphEvaluation(g *Graph, t EngineTime)
	OnBeforeNodeEvaluation(n *Node)
	OnAfterNodeEvaluation(n *Node)
	OnAfterGraphPushNodesEvaluation(g *Graph, t EngineTime)
	OnBeforeStopGraph(g *Graph)
	OnAfterStopGraph(g *Graph)
}

// RecordedState is the persisted form of a node's recordable-state output,
// opaque to the engine beyond the value it wraps.
type RecordedState struct {
	value *Value
}

// NewRecordedState wraps a value for persistence by a RecordReplayCollaborator.
func NewRecordedState(value *Value) RecordedState { return RecordedState{value: value} }

// RecordReplayCollaborator is the external persistence hook spec.md §6
// names. When one is installed on the Graph, Node.Start calls Recover to
// seed the node's recordable-state output. Record is not called anywhere in
// the engine, so recordable-state modifications are not persisted through
// it. The engine never implements the interface itself (external interface,
// SPEC non-goal: concrete collaborators are out of core scope).
type RecordReplayCollaborator interface {
	Recover(id uuid.UUID) (RecordedState, bool)
	Record(id uuid.UUID, state RecordedState)
}
