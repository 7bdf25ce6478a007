// Package observability supplies the concrete lifecycle-hook and logger
// implementations hgraph's core deliberately stays free of (spec.md §6:
// observers are an interface-only contract). It is the teacher's
// observability.go (loggingObserver/prometheusObserver/sigNozObserver) with
// the hand-rolled JSON/key-value writer and text-format Prometheus exporter
// replaced by the real libraries those hand-rolled paths were standing in
// for: zerolog, prometheus/client_golang, and OpenTelemetry.
package observability

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/hgraph-dev/hgraph-go"
)

// ZerologLogger adapts a zerolog.Logger to hgraph.Logger.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps logger for use as a Graph's ambient Logger.
func NewZerologLogger(logger zerolog.Logger) ZerologLogger {
	return ZerologLogger{logger: logger}
}

// NewDefaultZerologLogger returns a console-writer zerolog.Logger wrapped
// for convenience, matching the teacher's noopObserver-or-console default.
func NewDefaultZerologLogger() ZerologLogger {
	return ZerologLogger{logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()}
}

func (l ZerologLogger) With(name string) hgraph.Logger {
	return ZerologLogger{logger: l.logger.With().Str("component", name).Logger()}
}

func (l ZerologLogger) Debug(msg string, kv ...any) { l.event(l.logger.Debug(), msg, kv) }
func (l ZerologLogger) Info(msg string, kv ...any)  { l.event(l.logger.Info(), msg, kv) }
func (l ZerologLogger) Error(msg string, kv ...any) { l.event(l.logger.Error(), msg, kv) }

func (l ZerologLogger) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

// ZerologObserver logs graph start/stop at info level and every other
// lifecycle hook (node start, cycle and node evaluation boundaries) at debug
// level, which a deployment can dial up when diagnosing a misbehaving graph. It tolerates a nil embedded logger by
// falling back to hgraph.NopLogger the way the teacher's newLoggingObserver
// falls back to a noopObserver when given a nil Logger.
type ZerologObserver struct {
	logger hgraph.Logger
}

// NewZerologObserver constructs an observer logging through logger.
func NewZerologObserver(logger hgraph.Logger) *ZerologObserver {
	if logger == nil {
		logger = hgraph.NopLogger{}
	}
	return &ZerologObserver{logger: logger}
}

func (o *ZerologObserver) OnBeforeStartGraph(g *hgraph.Graph) {
	o.logger.Info("graph starting", "graph", g.Label)
}
func (o *ZerologObserver) OnAfterStartGraph(g *hgraph.Graph) {
	o.logger.Info("graph started", "graph", g.Label, "nodes", len(g.Nodes()))
}
func (o *ZerologObserver) OnBeforeStartNode(n *hgraph.Node) {
	o.logger.Debug("node starting", "node", n.Signature.Name)
}
func (o *ZerologObserver) OnAfterStartNode(n *hgraph.Node) {
	o.logger.Debug("node started", "node", n.Signature.Name)
}
func (o *ZerologObserver) OnBeforeGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	o.logger.Debug("cycle begin", "graph", g.Label, "t", t.String())
}
func (o *ZerologObserver) OnAfterGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	o.logger.Debug("cycle end", "graph", g.Label, "t", t.String())
}
func (o *ZerologObserver) OnBeforeNodeEvaluation(n *hgraph.Node) {
	o.logger.Debug("node eval begin", "node", n.Signature.Name)
}
func (o *ZerologObserver) OnAfterNodeEvaluation(n *hgraph.Node) {
	o.logger.Debug("node eval end", "node", n.Signature.Name)
}
func (o *ZerologObserver) OnAfterGraphPushNodesEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	o.logger.Debug("push nodes drained", "graph", g.Label, "t", t.String())
}
func (o *ZerologObserver) OnBeforeStopGraph(g *hgraph.Graph) {
	o.logger.Info("graph stopping", "graph", g.Label)
}
func (o *ZerologObserver) OnAfterStopGraph(g *hgraph.Graph) {
	o.logger.Info("graph stopped", "graph", g.Label)
}

var _ hgraph.LifecycleObserver = (*ZerologObserver)(nil)
var _ hgraph.Logger = ZerologLogger{}
