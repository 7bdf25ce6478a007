package hgraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hgraph-dev/hgraph-go"
	"github.com/hgraph-dev/hgraph-go/examples"
)

// TestPassThroughPropagatesIncrement drives spec.md §8's S1 scenario end to
// end: a pull source emits 10, then 20; the downstream compute node must
// see each in turn and produce in+1.
func TestPassThroughPropagatesIncrement(t *testing.T) {
	ctx := context.Background()
	g, source, compute := examples.BuildPassThrough("passthrough", 0, 10, []int64{10, 20})
	engine := hgraph.NewEngine(g, hgraph.Simulation, hgraph.MaxEngineTime)
	require.NoError(t, engine.Start(ctx))

	pushPending := false
	require.True(t, source.Eligible(0, pushPending))
	require.NoError(t, source.Eval(ctx))
	require.True(t, compute.Eligible(0, pushPending))
	require.NoError(t, compute.Eval(ctx))

	out := *compute.Output()
	require.Equal(t, int64(11), hgraph.Int64(out.Value().(*hgraph.Value)))

	source.Scheduler().Advance(0)
	require.True(t, source.Scheduler().IsScheduledNow(10))
	require.NoError(t, source.Eval(ctx))
	require.NoError(t, compute.Eval(ctx))
	require.Equal(t, int64(21), hgraph.Int64(out.Value().(*hgraph.Value)))
}

// TestSetCancellationWithinOneCycle drives spec.md §8's S2 scenario: add 1,
// add 2, add 3, erase 2 applied within a single cycle must leave the set
// holding {1, 3} with 2 never surfacing as either an addition or a removal
// in the cycle's delta.
func TestSetCancellationWithinOneCycle(t *testing.T) {
	g, node := examples.BuildSetCancellation("setcancel", 0)
	ctx := context.Background()
	engine := hgraph.NewEngine(g, hgraph.Simulation, hgraph.MaxEngineTime)
	require.NoError(t, engine.Start(ctx))

	require.NoError(t, examples.ApplySetCancellationCycle(node))

	out := *node.Output()
	require.True(t, out.Modified())

	view, ok := out.Value().(hgraph.CollectionView)
	require.True(t, ok)
	set, ok := view.Raw().(interface{ Len() int })
	require.True(t, ok)
	require.Equal(t, 2, set.Len())
}

// TestSetDeltaResetsBetweenCycles extends S2 across two engine cycles: the
// add/erase sequence runs in cycle 0 and the set's delta must be empty again
// by cycle 1, even though nothing touched it in between. Without
// Engine.EvaluateForever sweeping Delta.Reset() at the cycle boundary,
// cycle 0's {1,3} added-set would leak into cycle 1's read.
func TestSetDeltaResetsBetweenCycles(t *testing.T) {
	ctx := context.Background()
	g, node := examples.BuildSetCancellation("setcancel-multicycle", 0)
	engine := hgraph.NewEngine(g, hgraph.Simulation, hgraph.MaxEngineTime)
	require.NoError(t, engine.Start(ctx))

	require.NoError(t, examples.ApplySetCancellationCycle(node))
	require.NoError(t, engine.EvaluateForever(ctx))

	out := *node.Output()
	view, ok := out.Value().(hgraph.CollectionView)
	require.True(t, ok)
	set, ok := view.Raw().(interface{ Len() int })
	require.True(t, ok)
	require.Equal(t, 2, set.Len())

	delta, ok := out.DeltaValue().(hgraph.CollectionView)
	require.True(t, ok)
	setDelta, ok := delta.Raw().(*hgraph.SetDelta)
	require.True(t, ok)
	require.Empty(t, setDelta.Added())
	require.Empty(t, setDelta.Removed())

	require.NoError(t, g.Clock().AdvanceTo(1))
	require.NoError(t, engine.EvaluateForever(ctx))

	delta2, ok := out.DeltaValue().(hgraph.CollectionView)
	require.True(t, ok)
	setDelta2, ok := delta2.Raw().(*hgraph.SetDelta)
	require.True(t, ok)
	require.Empty(t, setDelta2.Added(), "stale delta from cycle 0 must not leak into cycle 1")
	require.Empty(t, setDelta2.Removed())
}

// TestReferenceRebindDoesNotRenotifyOnTargetChange drives spec.md §8's S3
// scenario: a reference output X bound first to Y then rebound to Z, with a
// subscriber N that must see each rebind but never fire again when Y itself
// changes afterward while X still points to Z.
func TestReferenceRebindDoesNotRenotifyOnTargetChange(t *testing.T) {
	ctx := context.Background()
	g, y, z, x, n := examples.BuildReferenceRebind("refrebind", 0)
	engine := hgraph.NewEngine(g, hgraph.Simulation, hgraph.MaxEngineTime)
	require.NoError(t, engine.Start(ctx))
	reg := g.Registry()

	require.NoError(t, examples.SetScalar(reg, y, 5))
	require.NoError(t, examples.SetScalar(reg, z, 7))
	require.NoError(t, examples.RebindReference(g, x, y))

	require.True(t, n.Eligible(0, false))
	require.NoError(t, n.Eval(ctx))
	out := *n.Output()
	require.Equal(t, int64(5), hgraph.Int64(out.Value().(*hgraph.Value)))

	require.NoError(t, g.Clock().AdvanceTo(1))
	require.NoError(t, examples.RebindReference(g, x, z))
	require.True(t, n.Eligible(1, false))
	require.NoError(t, n.Eval(ctx))
	require.Equal(t, int64(7), hgraph.Int64(out.Value().(*hgraph.Value)))

	require.NoError(t, g.Clock().AdvanceTo(2))
	require.NoError(t, examples.SetScalar(reg, y, 6))
	require.False(t, n.Eligible(2, false), "N must not re-fire when Y changes while X still points to Z")
}

// TestWindowEvictionReportsOldestRemoved drives spec.md §8's S4 scenario: a
// fixed window of size 3 pushed four times must retain the three newest
// values and report the one it evicted.
func TestWindowEvictionReportsOldestRemoved(t *testing.T) {
	ctx := context.Background()
	g, node := examples.BuildWindowEviction("windoweviction", 0, 3)
	engine := hgraph.NewEngine(g, hgraph.Simulation, hgraph.MaxEngineTime)
	require.NoError(t, engine.Start(ctx))
	reg := g.Registry()

	for i, v := range []int64{10, 20, 30, 40} {
		require.NoError(t, g.Clock().AdvanceTo(hgraph.EngineTime(i)))
		require.NoError(t, examples.PushWindowValue(reg, node, v))
	}

	out := *node.Output()
	view, ok := out.Value().(hgraph.CollectionView)
	require.True(t, ok)
	window, ok := view.Raw().(interface {
		Len() int
		HasRemovedValue() bool
		RemovedValueCount() int
	})
	require.True(t, ok)
	require.Equal(t, 3, window.Len())
	require.True(t, window.HasRemovedValue())
	require.Equal(t, 1, window.RemovedValueCount())

	var got []int64
	elements := out.WindowElements()
	for {
		el, ok := elements.Next()
		if !ok {
			break
		}
		got = append(got, hgraph.Int64(el.Value().(*hgraph.Value)))
	}
	require.Equal(t, []int64{20, 30, 40}, got)
}

// TestSchedulerTagPop drives spec.md §8's S5 scenario directly against
// NodeScheduler: a tag scheduled 100 ticks out is scheduled-now at exactly
// that time and gone once popped.
func TestSchedulerTagPop(t *testing.T) {
	s := hgraph.NewNodeScheduler()
	s.Schedule(100, "retry")

	require.True(t, s.IsScheduledNow(100))
	when, ok := s.PopTag("retry")
	require.True(t, ok)
	require.Equal(t, hgraph.EngineTime(100), when)
	require.False(t, s.HasTag("retry"))
}

// TestBundleFieldWritesNotifyOnce drives spec.md §8's S6 scenario: writing
// two fields of a bundle output in the same cycle must mark the bundle and
// both fields modified, yet a whole-bundle subscriber — here a spy TSLink
// bound directly alongside the real subscriber node — must be notified
// exactly once.
func TestBundleFieldWritesNotifyOnce(t *testing.T) {
	ctx := context.Background()
	g, producer, subscriber := examples.BuildBundleDedup("bundledup", 0)
	engine := hgraph.NewEngine(g, hgraph.Simulation, hgraph.MaxEngineTime)
	require.NoError(t, engine.Start(ctx))
	reg := g.Registry()

	notifications := 0
	spy := hgraph.NewTSLink(false, func(hgraph.EngineTime) { notifications++ })
	spy.Bind(producer.Output(), -1, g.Clock().EvaluationTime())
	spy.MakeActive()

	require.NoError(t, examples.SetBundleFields(reg, producer, 3, 4))

	out := *producer.Output()
	require.True(t, out.Modified())
	require.True(t, out.Field(0).Modified())
	require.True(t, out.Field(1).Modified())
	require.Equal(t, 1, notifications, "two field writes in one cycle must notify exactly once")

	require.True(t, subscriber.Eligible(0, false))
	require.NoError(t, subscriber.Eval(ctx))
	sum := *subscriber.Output()
	require.Equal(t, int64(7), hgraph.Int64(sum.Value().(*hgraph.Value)))
}
