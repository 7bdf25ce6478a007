package hgraph

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// EvaluationMode is one of the four modes spec.md §4.6 describes.
type EvaluationMode uint8

const (
	Simulation EvaluationMode = iota
	Realtime
	Replay
	Recording
)

// Engine replaces the teacher's basicScheduler (scheduler_impl.go): Start
// plays the role of the teacher's work-group registration pass, and
// EvaluateForever's body is one Tick. Error-policy handling (the teacher's
// Abort/Continue/Retry) becomes the do_eval capture_exception branch in
// Node.Eval.
type Engine struct {
	graph         *Graph
	mode          EvaluationMode
	endTime       EngineTime
	stopRequested bool
	adapters      *PushAdapterPool
}

// NewEngine constructs an engine over graph, running in mode until endTime
// (MaxEngineTime for "run forever").
func NewEngine(graph *Graph, mode EvaluationMode, endTime EngineTime) *Engine {
	return &Engine{graph: graph, mode: mode, endTime: endTime, adapters: NewPushAdapterPool(graph.pushInbox)}
}

// Start starts every node in declaration order (spec.md §4.6
// "start()"), bracketed by the graph-level before/after-start-graph hooks.
func (e *Engine) Start(ctx context.Context) error {
	g := e.graph
	for _, obs := range g.observers {
		obs.OnBeforeStartGraph(g)
	}
	for _, n := range g.nodes {
		// Node.Start brackets itself with OnBeforeStartNode/OnAfterStartNode;
		// Engine.Start only brackets the whole graph-level pass.
		if err := n.Start(ctx); err != nil {
			return err
		}
	}
	for _, obs := range g.observers {
		obs.OnAfterStartGraph(g)
	}
	return nil
}

// EvaluateForever runs spec.md §4.6's evaluate_forever loop until stop is
// requested or the next cycle time reaches endTime. An uncaptured node error
// is returned as soon as it occurs; EvaluateForever does not run Stop itself.
func (e *Engine) EvaluateForever(ctx context.Context) error {
	g := e.graph
	for !e.stopRequested {
		t := g.clock.EvaluationTime()
		for _, obs := range g.observers {
			obs.OnBeforeGraphEvaluation(g, t)
		}

		e.drainPushInbox(t)
		pushPending := g.clock.PushPending() || g.pushInbox.NonEmpty()

		for _, n := range g.nodes {
			if !n.Eligible(t, pushPending) || !n.ValidForEval() {
				continue
			}
			if err := n.Eval(ctx); err != nil {
				return err
			}
		}

		for _, obs := range g.observers {
			obs.OnAfterGraphPushNodesEvaluation(g, t)
		}
		for _, obs := range g.observers {
			obs.OnAfterGraphEvaluation(g, t)
		}

		for _, n := range g.nodes {
			if n.scheduler != nil {
				n.scheduler.Advance(t)
			}
			n.sweepDeltas(t)
		}

		next := e.nextTime(t)
		if next >= e.endTime {
			return nil
		}
		if e.mode != Simulation {
			if err := e.waitUntil(ctx, next); err != nil {
				return err
			}
		}
		if err := g.clock.AdvanceTo(next); err != nil {
			return err
		}
	}
	return nil
}

// nextTime computes spec.md §4.6's `next`: the earliest of every node
// scheduler's next entry after t, the inbox's availability, and endTime.
func (e *Engine) nextTime(t EngineTime) EngineTime {
	next := e.endTime
	for _, n := range e.graph.nodes {
		if n.scheduler == nil {
			continue
		}
		if s := n.scheduler.NextScheduledTime(t); s < next {
			next = s
		}
	}
	if e.graph.pushInbox.NonEmpty() {
		if now := e.graph.clock.Now(); now < next {
			next = now
		}
	}
	return next
}

func (e *Engine) drainPushInbox(t EngineTime) {
	for _, cmd := range e.graph.pushInbox.Drain() {
		if err := cmd.Apply(e.graph, t); err != nil {
			e.graph.logger.Error("push command failed", "error", err)
		}
	}
}

// waitUntil blocks until wall-clock time next, or until ctx is cancelled, or
// until a push arrival preempts the wait (spec.md §5's "push node requires
// scheduling" flag).
func (e *Engine) waitUntil(ctx context.Context, next EngineTime) error {
	if next == MaxEngineTime {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.graph.pushInbox.Wake():
			return nil
		}
	}
	d := time.Until(next.Time())
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	case <-e.graph.pushInbox.Wake():
		return nil
	}
}

// Stop mirrors Start in reverse (spec.md §4.6 "stop()"), bracketed by the
// graph-level before/after-stop-graph hooks.
func (e *Engine) Stop(ctx context.Context) error {
	e.stopRequested = true
	g := e.graph
	for _, obs := range g.observers {
		obs.OnBeforeStopGraph(g)
	}
	for i := len(g.nodes) - 1; i >= 0; i-- {
		_ = g.nodes[i].Stop(ctx)
	}
	if e.adapters != nil {
		_ = e.adapters.Stop()
	}
	for _, obs := range g.observers {
		obs.OnAfterStopGraph(g)
	}
	return nil
}

// RunRealtime runs the evaluation loop in an errgroup.Group alongside the
// given push-source adapters, which run in the Engine's PushAdapterPool
// under the group's context. An error from the loop cancels that context and
// so stops the adapters; an adapter's error cancels only the other adapters
// (the pool's own errgroup) and does not stop the loop. Stop runs once the
// loop returns.
func (e *Engine) RunRealtime(ctx context.Context, adapters ...PushAdapter) error {
	group, gctx := errgroup.WithContext(ctx)
	e.adapters.Start(gctx, adapters...)
	group.Go(func() error { return e.EvaluateForever(gctx) })
	err := group.Wait()
	_ = e.Stop(ctx)
	return err
}
