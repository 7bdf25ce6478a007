package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hgraph-dev/hgraph-go"
)

// OTelObserver replaces the teacher's SigNozObserver/SigNozSpanExporter
// (observability.go), which built span JSON objects by hand and posted
// them to a collector URL itself. Here a real trace.Tracer opens and ends
// spans; whatever SpanExporter/Processor the caller configured on their
// TracerProvider (OTLP, SigNoz's collector included, or otherwise) receives
// them, so this observer never speaks an exporter wire format itself.
type OTelObserver struct {
	tracer trace.Tracer

	mu          sync.Mutex
	cycleSpans  map[string]trace.Span
	nodeSpans   map[string]trace.Span
}

// NewOTelObserver constructs an observer emitting spans through tracer.
func NewOTelObserver(tracer trace.Tracer) *OTelObserver {
	return &OTelObserver{
		tracer:     tracer,
		cycleSpans: make(map[string]trace.Span),
		nodeSpans:  make(map[string]trace.Span),
	}
}

func (o *OTelObserver) OnBeforeStartGraph(g *hgraph.Graph) {
	_, span := o.tracer.Start(context.Background(), "graph.start", trace.WithAttributes(
		attribute.String("graph", g.Label),
	))
	span.End()
}
func (o *OTelObserver) OnAfterStartGraph(g *hgraph.Graph) {}

func (o *OTelObserver) OnBeforeStartNode(n *hgraph.Node) {
	_, span := o.tracer.Start(context.Background(), "node.start", trace.WithAttributes(
		attribute.String("node", n.Signature.Name),
	))
	span.End()
}
func (o *OTelObserver) OnAfterStartNode(n *hgraph.Node) {}

func (o *OTelObserver) OnBeforeGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	ctx, span := o.tracer.Start(context.Background(), "graph.cycle", trace.WithAttributes(
		attribute.String("graph", g.Label),
		attribute.String("t", t.String()),
	))
	o.mu.Lock()
	o.cycleSpans[g.Label] = span
	o.mu.Unlock()
	_ = ctx
}
func (o *OTelObserver) OnAfterGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	o.mu.Lock()
	span, ok := o.cycleSpans[g.Label]
	delete(o.cycleSpans, g.Label)
	o.mu.Unlock()
	if ok {
		span.End()
	}
}

func (o *OTelObserver) OnBeforeNodeEvaluation(n *hgraph.Node) {
	_, span := o.tracer.Start(context.Background(), "node.eval", trace.WithAttributes(
		attribute.String("node", n.Signature.Name),
	))
	o.mu.Lock()
	o.nodeSpans[n.Signature.Name] = span
	o.mu.Unlock()
}
func (o *OTelObserver) OnAfterNodeEvaluation(n *hgraph.Node) {
	o.mu.Lock()
	span, ok := o.nodeSpans[n.Signature.Name]
	delete(o.nodeSpans, n.Signature.Name)
	o.mu.Unlock()
	if ok {
		span.End()
	}
}

func (o *OTelObserver) OnAfterGraphPushNodesEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {}

func (o *OTelObserver) OnBeforeStopGraph(g *hgraph.Graph) {
	_, span := o.tracer.Start(context.Background(), "graph.stop", trace.WithAttributes(
		attribute.String("graph", g.Label),
	))
	span.End()
}
func (o *OTelObserver) OnAfterStopGraph(g *hgraph.Graph) {}

var _ hgraph.LifecycleObserver = (*OTelObserver)(nil)
