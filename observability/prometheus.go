package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hgraph-dev/hgraph-go"
)

// PrometheusObserver replaces the teacher's hand-rolled
// PrometheusWorkGroupCollector (observability.go), which built Prometheus
// text-exposition lines itself with bytes.Buffer/fmt.Sprintf. Here the
// counters/histograms are real client_golang collectors registered against
// a prometheus.Registerer, so scraping is whatever /metrics endpoint the
// caller already exposes via promhttp.
type PrometheusObserver struct {
	graphStarts     *prometheus.CounterVec
	nodeStarts      *prometheus.CounterVec
	cycleDuration   *prometheus.HistogramVec
	nodeEvalDuration *prometheus.HistogramVec

	cycleBegin map[string]time.Time
	nodeBegin  map[string]time.Time
}

// NewPrometheusObserver registers its collectors against reg and returns the
// observer. Passing prometheus.DefaultRegisterer matches the teacher's
// default-collector-registry behavior.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	o := &PrometheusObserver{
		graphStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hgraph_graph_starts_total",
			Help: "Number of times a graph has been started.",
		}, []string{"graph"}),
		nodeStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hgraph_node_starts_total",
			Help: "Number of times a node has been started.",
		}, []string{"node"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hgraph_cycle_duration_seconds",
			Help:    "Wall time spent evaluating one graph cycle.",
			Buckets: prometheus.DefBuckets,
		}, []string{"graph"}),
		nodeEvalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hgraph_node_eval_duration_seconds",
			Help:    "Wall time spent in a single node's do_eval.",
			Buckets: prometheus.DefBuckets,
		}, []string{"node"}),
		cycleBegin: make(map[string]time.Time),
		nodeBegin:  make(map[string]time.Time),
	}
	reg.MustRegister(o.graphStarts, o.nodeStarts, o.cycleDuration, o.nodeEvalDuration)
	return o
}

func (o *PrometheusObserver) OnBeforeStartGraph(g *hgraph.Graph) {}
func (o *PrometheusObserver) OnAfterStartGraph(g *hgraph.Graph) {
	o.graphStarts.WithLabelValues(g.Label).Inc()
}
func (o *PrometheusObserver) OnBeforeStartNode(n *hgraph.Node) {}
func (o *PrometheusObserver) OnAfterStartNode(n *hgraph.Node) {
	o.nodeStarts.WithLabelValues(n.Signature.Name).Inc()
}
func (o *PrometheusObserver) OnBeforeGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	o.cycleBegin[g.Label] = time.Now()
}
func (o *PrometheusObserver) OnAfterGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	if start, ok := o.cycleBegin[g.Label]; ok {
		o.cycleDuration.WithLabelValues(g.Label).Observe(time.Since(start).Seconds())
		delete(o.cycleBegin, g.Label)
	}
}
func (o *PrometheusObserver) OnBeforeNodeEvaluation(n *hgraph.Node) {
	o.nodeBegin[n.Signature.Name] = time.Now()
}
func (o *PrometheusObserver) OnAfterNodeEvaluation(n *hgraph.Node) {
	if start, ok := o.nodeBegin[n.Signature.Name]; ok {
		o.nodeEvalDuration.WithLabelValues(n.Signature.Name).Observe(time.Since(start).Seconds())
		delete(o.nodeBegin, n.Signature.Name)
	}
}
func (o *PrometheusObserver) OnAfterGraphPushNodesEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {}
func (o *PrometheusObserver) OnBeforeStopGraph(g *hgraph.Graph)                                    {}
func (o *PrometheusObserver) OnAfterStopGraph(g *hgraph.Graph)                                     {}

var _ hgraph.LifecycleObserver = (*PrometheusObserver)(nil)
