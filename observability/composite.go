package observability

import "github.com/hgraph-dev/hgraph-go"

// Composite fans every hook out to each child observer in order, exactly
// the teacher's compositeObserver (observability.go) — used to run, say, a
// ZerologObserver and a PrometheusObserver side by side as the Graph's
// single observer.
type Composite struct {
	observers []hgraph.LifecycleObserver
}

// NewComposite builds a Composite over observers, in registration order.
func NewComposite(observers ...hgraph.LifecycleObserver) *Composite {
	return &Composite{observers: observers}
}

func (c *Composite) OnBeforeStartGraph(g *hgraph.Graph) {
	for _, o := range c.observers {
		o.OnBeforeStartGraph(g)
	}
}
func (c *Composite) OnAfterStartGraph(g *hgraph.Graph) {
	for _, o := range c.observers {
		o.OnAfterStartGraph(g)
	}
}
func (c *Composite) OnBeforeStartNode(n *hgraph.Node) {
	for _, o := range c.observers {
		o.OnBeforeStartNode(n)
	}
}
func (c *Composite) OnAfterStartNode(n *hgraph.Node) {
	for _, o := range c.observers {
		o.OnAfterStartNode(n)
	}
}
func (c *Composite) OnBeforeGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	for _, o := range c.observers {
		o.OnBeforeGraphEvaluation(g, t)
	}
}
func (c *Composite) OnAfterGraphEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	for _, o := range c.observers {
		o.OnAfterGraphEvaluation(g, t)
	}
}
func (c *Composite) OnBeforeNodeEvaluation(n *hgraph.Node) {
	for _, o := range c.observers {
		o.OnBeforeNodeEvaluation(n)
	}
}
func (c *Composite) OnAfterNodeEvaluation(n *hgraph.Node) {
	for _, o := range c.observers {
		o.OnAfterNodeEvaluation(n)
	}
}
func (c *Composite) OnAfterGraphPushNodesEvaluation(g *hgraph.Graph, t hgraph.EngineTime) {
	for _, o := range c.observers {
		o.OnAfterGraphPushNodesEvaluation(g, t)
	}
}
func (c *Composite) OnBeforeStopGraph(g *hgraph.Graph) {
	for _, o := range c.observers {
		o.OnBeforeStopGraph(g)
	}
}
func (c *Composite) OnAfterStopGraph(g *hgraph.Graph) {
	for _, o := range c.observers {
		o.OnAfterStopGraph(g)
	}
}

var _ hgraph.LifecycleObserver = (*Composite)(nil)
