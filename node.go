package hgraph

import (
	"context"
	"fmt"
)

// NodeState is the lifecycle spec.md §4.5 names, carried forward from the
// teacher's implicit start/stop shape in scheduler_impl.go's Tick/Run as an
// explicit enum with transition methods that call the lifecycle hooks (§10).
type NodeState uint8

const (
	NodeInitialised NodeState = iota
	NodeStarted
	NodeStopping
	NodeStopped
	NodeDisposed
)

func (s NodeState) String() string {
	switch s {
	case NodeInitialised:
		return "Initialised"
	case NodeStarted:
		return "Started"
	case NodeStopping:
		return "Stopping"
	case NodeStopped:
		return "Stopped"
	case NodeDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// DoEval is a node's user-supplied evaluation body. It reads inputs and
// writes the output/recordable-state through args, mirroring the teacher's
// System.Execute(ctx, ExecutionContext) shape (api.go) narrowed to a single
// node instead of a whole work group.
type DoEval func(ctx context.Context, args *NodeArgs) error

// NodeArgs is the map-like accessor over a node's declared inputs plus its
// injected traits, exactly spec.md §8's injection bitmap — the teacher's
// ExecutionContext (api.go) adapted from "component views for this system"
// to "input views plus output view for this node".
type NodeArgs struct {
	node *Node
	ctx  context.Context
}

// Input returns the i-th declared input's view.
func (a *NodeArgs) Input(i int) TSInputView { return a.node.inputs[i] }

// InputByName returns a declared input's view by name, or the zero
// TSInputView and false if name is not declared.
func (a *NodeArgs) InputByName(name string) (TSInputView, bool) {
	i := a.node.Signature.InputIndex(name)
	if i < 0 {
		return TSInputView{}, false
	}
	return a.node.inputs[i], true
}

// Output returns the node's output view. Panics if the signature declares no
// output (Sink nodes) — a wiring-time bug, not a runtime condition.
func (a *NodeArgs) Output() TSOutputView { return *a.node.output }

// RecordableState returns the node's recordable-state output view.
func (a *NodeArgs) RecordableState() TSOutputView { return *a.node.recordableState }

// Scheduler returns the node's scheduler, present when Injection has
// InjectScheduler or the node is a SourcePull.
func (a *NodeArgs) Scheduler() *NodeScheduler { return a.node.scheduler }

// Clock returns the owning graph's clock.
func (a *NodeArgs) Clock() *EngineClock { return a.node.graph.clock }

// Logger returns the ambient structured logger, stamped with this node's
// name.
func (a *NodeArgs) Logger() Logger { return a.node.graph.logger.With(a.node.Signature.Name) }

// NodeSelf returns the node itself, for traits that need to inspect their
// own signature or state machine position.
func (a *NodeArgs) NodeSelf() *Node { return a.node }

// EngineAPI returns a handle onto the owning graph, whether or not
// Injection has InjectEngineAPI.
func (a *NodeArgs) EngineAPI() EngineAPI { return EngineAPI{graph: a.node.graph} }

// Traits returns the owning graph's shared trait bag, whether or not
// Injection has InjectTraits.
func (a *NodeArgs) Traits() *Traits { return a.node.graph.traits }

// Node owns one position in the graph: its input bundle, optional output,
// optional recordable-state output, optional scheduler, and state machine
// position. Arena-resident fields (inputs, output, recordableState) are
// patched in by builder.go when Graph.AddNode wires the node.
type Node struct {
	Signature *NodeSignature
	State     NodeState
	ID        NodeID

	graph *Graph

	inputRoot       TSView
	inputs          []TSInputView
	output          *TSOutputView
	recordableState *TSOutputView
	scheduler       *NodeScheduler

	eval DoEval

	// recheckValidity holds the indices of inputs whose upstream may still
	// be invalid at eval time (e.g. an unbound reference) and so need a
	// Valid() check before every evaluation rather than only at bind time.
	recheckValidity []int

	// notifiedAt is the last cycle time a subscribed link fired Notify into
	// this node; set by markNotified, the onNotify hook every TSLink wired
	// to one of this node's inputs is constructed with.
	notifiedAt EngineTime

	// deltaPositions is every delta-bearing position builder.go discovered
	// while constructing this node's input/output/recordable-state views,
	// swept once per cycle by Engine.EvaluateForever (spec.md §4.6).
	deltaPositions []tickable
}

// sweepDeltas resets the Delta tracker and drains the deferred-erase free
// list of every position that ticked at t, the per-cycle boundary step
// spec.md §4.6 lists and §4.1 requires before tombstoned slots become
// reusable.
func (n *Node) sweepDeltas(t EngineTime) {
	for _, tk := range n.deltaPositions {
		if !tk.overlay.ModifiedAt(t) {
			continue
		}
		if d := tk.overlay.DeltaTracker(); d != nil {
			d.Reset()
		}
		if tk.drain != nil {
			tk.drain()
		}
	}
}

// NewNode constructs a node in the Initialised state. inputs/output/
// recordableState are wired by the owning Graph's arena build.
func NewNode(sig *NodeSignature, eval DoEval) *Node {
	n := &Node{Signature: sig, State: NodeInitialised, eval: eval, notifiedAt: MinEngineTime}
	if sig.HasScheduler {
		n.scheduler = NewNodeScheduler()
	}
	return n
}

// Output returns the node's output view for wiring-time use (Graph.Connect
// passes it to downstream inputs). Nil for Sink nodes.
func (n *Node) Output() *TSOutputView { return n.output }

// RecordableState returns the node's recordable-state output view for
// wiring-time use. Nil for nodes that declare none.
func (n *Node) RecordableState() *TSOutputView { return n.recordableState }

// InputView returns the i-th declared input's view for wiring-time use
// (Graph.Connect's caller reads its schema/Link from here).
func (n *Node) InputView(i int) TSInputView { return n.inputs[i] }

// Scheduler returns the node's scheduler for wiring-time use (seeding a
// pull source's first emission). Nil unless the signature requests one.
func (n *Node) Scheduler() *NodeScheduler { return n.scheduler }

// markNotified records that a subscribed link fired at t; it is the
// onNotify hook passed to NewTSLink when builder.go wires this node's inputs.
func (n *Node) markNotified(t EngineTime) { n.notifiedAt = t }

// Eligible reports whether this node should run in cycle t, per spec.md
// §4.5's conditions (a)-(c): a subscribed link fired into it, its scheduler
// has an entry due now, or it is a push source with inbox data. (d)/(e) —
// pull-source timers and the start/stop cycle — are handled by the
// scheduler-entry check and by Engine.Start/Stop calling node lifecycle
// methods directly rather than routing through Eligible.
func (n *Node) Eligible(t EngineTime, pushPending bool) bool {
	switch {
	case n.notifiedAt == t:
		return true
	case n.scheduler != nil && n.scheduler.IsScheduledNow(t):
		return true
	case n.Signature.Kind == SourcePush && pushPending:
		return true
	default:
		return false
	}
}

// ValidForEval reports whether every input flagged recheck-validity is
// currently valid, gating evaluation for nodes with optional/reference
// inputs that may still be unbound.
func (n *Node) ValidForEval() bool {
	for _, i := range n.recheckValidity {
		if !n.inputs[i].Valid() {
			return false
		}
	}
	return true
}

// Eval runs on_before_node_evaluation, do_eval, on_after_node_evaluation in
// order (spec.md §4.5). When the signature sets CapturesException, a do_eval
// error goes to captureError, which logs it and lets the cycle continue;
// nothing is written to the node's output. Otherwise the error is
// propagated to abort the cycle.
func (n *Node) Eval(ctx context.Context) error {
	for _, obs := range n.graph.observers {
		obs.OnBeforeNodeEvaluation(n)
	}
	err := n.runEval(ctx)
	for _, obs := range n.graph.observers {
		obs.OnAfterNodeEvaluation(n)
	}
	if err == nil {
		return nil
	}
	if n.Signature.CapturesException {
		n.captureError(err)
		return nil
	}
	return newNodeEvalException(n.Signature.Name, n.inputRoot.Path(), err)
}

func (n *Node) runEval(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return n.eval(ctx, &NodeArgs{node: n, ctx: ctx})
}

// captureError surfaces a do_eval failure without aborting the cycle.
// Nodes that declare CapturesException are expected to carry an
// error-shaped field in their output bundle that do_eval itself populates
// before returning; captureError's job is only to make sure the failure is
// not silently dropped.
func (n *Node) captureError(err error) {
	n.graph.logger.With(n.Signature.Name).Error("node evaluation captured", "error", err)
}

// Start transitions Initialised→Started, calling OnBeforeStartNode/
// OnAfterStartNode. This is the only point a node may recover its
// recordable-state via the Graph's RecordReplayCollaborator.
func (n *Node) Start(ctx context.Context) error {
	for _, obs := range n.graph.observers {
		obs.OnBeforeStartNode(n)
	}
	if n.graph.collaborator != nil {
		if state, ok := n.graph.collaborator.Recover(n.Signature.RecordReplayID); ok {
			n.restoreRecordableState(state)
		}
	}
	n.State = NodeStarted
	for _, obs := range n.graph.observers {
		obs.OnAfterStartNode(n)
	}
	return nil
}

func (n *Node) restoreRecordableState(state RecordedState) {
	if n.recordableState == nil {
		return
	}
	_ = n.recordableState.SetValue(state.value)
}

// Stop transitions Started→Stopping→Stopped. The graph-level
// OnBeforeStopGraph/OnAfterStopGraph hooks bracket the whole reverse-order
// stop sequence (engine.go); individual node stops are not themselves
// observed, matching spec.md §6's eleven-hook count.
func (n *Node) Stop(ctx context.Context) error {
	n.State = NodeStopping
	n.State = NodeStopped
	return nil
}

// Dispose transitions to the terminal state.
func (n *Node) Dispose() { n.State = NodeDisposed }
