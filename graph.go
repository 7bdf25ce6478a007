package hgraph

// Graph replaces the teacher's World (world.go): it holds the arena, the
// ordered nodes established at wiring time, the engine clock, the push
// inbox, and the ordered observer chain. GraphOption follows the same
// functional-options shape WorldOption used.
type Graph struct {
	Label string

	arena        *Arena
	registry     *Registry
	traits       *Traits
	nodes        []*Node
	nodesByID    map[NodeID]*Node
	clock        *EngineClock
	pushInbox    *PushInbox
	observers    []LifecycleObserver
	logger       Logger
	collaborator RecordReplayCollaborator

	parent *Node // non-nil for a nested graph
}

// GraphOption configures a Graph at construction.
type GraphOption func(*Graph)

// NewGraph constructs a graph starting at start, with no nodes wired yet.
// AddNode places each node's positions through the graph's arena/registry
// as it is wired in, so by the time Start runs every node already has
// working inputs/output/recordable-state views.
func NewGraph(label string, start EngineTime, realtime bool, opts ...GraphOption) *Graph {
	g := &Graph{
		Label:     label,
		arena:     NewArena(),
		registry:  NewRegistry(),
		traits:    NewTraits(),
		nodesByID: make(map[NodeID]*Node),
		clock:     NewEngineClock(start, realtime),
		pushInbox: NewPushInbox(),
		logger:    NopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger Logger) GraphOption {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithObservers installs the ordered lifecycle observer chain.
func WithObservers(observers ...LifecycleObserver) GraphOption {
	return func(g *Graph) { g.observers = append(g.observers, observers...) }
}

// WithRecordReplayCollaborator installs the external persistence hook.
// Node.Start consults it whenever one is installed, whatever the Engine's
// EvaluationMode.
func WithRecordReplayCollaborator(c RecordReplayCollaborator) GraphOption {
	return func(g *Graph) { g.collaborator = c }
}

// WithParentNode marks this graph as nested under a host node (used for
// nested-graph signatures' HasNestedGraphs flag).
func WithParentNode(parent *Node) GraphOption {
	return func(g *Graph) { g.parent = parent }
}

// AddNode wires node into the graph in declaration order: it mints the
// node's NodeID and places its input/output/recordable-state positions
// through the graph's arena before the node is reachable by name or ID.
// Must be called before Start.
func (g *Graph) AddNode(n *Node) {
	n.graph = g
	n.ID = NewNodeID()
	buildNode(g.registry, g.arena, n, g.clock.TimePointer())
	g.nodes = append(g.nodes, n)
	g.nodesByID[n.ID] = n
}

// Nodes returns the wired nodes in declaration order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// NodeByID looks up a wired node by its NodeID, the form a RefToken
// targets.
func (g *Graph) NodeByID(id NodeID) (*Node, bool) {
	n, ok := g.nodesByID[id]
	return n, ok
}

// Clock exposes the graph's engine clock.
func (g *Graph) Clock() *EngineClock { return g.clock }

// PushInbox exposes the graph's push inbox for external producers.
func (g *Graph) PushInbox() *PushInbox { return g.pushInbox }

// Logger exposes the graph's ambient logger.
func (g *Graph) Logger() Logger { return g.logger }

// Traits exposes the graph's shared trait bag, the value InjectTraits hands
// a node's do_eval.
func (g *Graph) Traits() *Traits { return g.traits }

// Registry exposes the graph's TypeMeta registry, for callers constructing
// TimeSeriesMeta schemas that need to share interned scalar types.
func (g *Graph) Registry() *Registry { return g.registry }

// Connect binds input's link to output at elementIndex (-1 for "the whole
// position"), validating that the two sides' raw TypeMeta agree before
// subscribing. This is the wiring-time counterpart to TSLink.Bind: call it
// while assembling the graph, before Start.
func (g *Graph) Connect(input TSInputView, output *TSOutputView, elementIndex int) error {
	link := input.Link()
	if link == nil {
		return wrapFatal(ErrInvariantViolation, "input position has no link to bind")
	}
	inMeta := g.registry.typeMetaFor(input.schema)
	outMeta := g.registry.typeMetaFor(output.schema)
	if inMeta != outMeta {
		return ErrTypeMismatch
	}
	link.Bind(output, elementIndex, g.clock.EvaluationTime())
	link.MakeActive()
	return nil
}

// MakeRefToken resolves target's output view into a RefToken suitable for
// BindPeered on a REF[T] position. Returns a dangling token (Dangling()
// true) if target carries no output (a Sink node, or one not yet wired).
func (g *Graph) MakeRefToken(target *Node, path Path) RefToken {
	return RefToken{Target: target.ID, Path: path, output: target.output}
}
