package hgraph

import "github.com/hgraph-dev/hgraph-go/collections"

// LinkTarget is the resolved (output, element index) pair a link navigates
// to. elementIndex is -1 unless the link targets one element of a
// collection output rather than the whole position.
type LinkTarget struct {
	output       TSOutputView
	elementIndex int
}

// TSLink is one input position's binding to an output, exactly the fields
// spec.md §3/§4.4 name. It implements Subscriber so an output's Overlay can
// notify it directly.
type TSLink struct {
	boundOutput  *TSOutputView
	active       bool
	notifyOnce   bool
	sampleTime   EngineTime
	notifyTime   EngineTime
	elementIndex int

	isRefInput bool
	onNotify   func(t EngineTime) // the owning node's scheduling hook

	children []*TSLink // composite inputs gate their subtree together
}

// NewTSLink constructs an unbound link for a position whose input schema is
// isRefInput. onNotify is invoked once per cycle the link actually fires,
// typically Node.markNotified.
func NewTSLink(isRefInput bool, onNotify func(t EngineTime)) *TSLink {
	return &TSLink{elementIndex: -1, notifyTime: MinEngineTime, isRefInput: isRefInput, onNotify: onNotify}
}

// AddChild registers a child link that make_active/make_passive on this
// link should also toggle, for composite (bundle/list/dict) inputs whose
// leaves are bound independently but gated as a subtree. Unbind does not
// propagate to children.
func (l *TSLink) AddChild(child *TSLink) { l.children = append(l.children, child) }

// Bound reports whether this link currently has a bound output.
func (l *TSLink) Bound() bool { return l.boundOutput != nil }

// Bind attaches this link to output, following spec.md §4.4's three-step
// lifecycle. Binding a reference input to a non-reference output switches
// the link into notify_once mode; rebinding to the same output it is already
// bound to is a no-op (resolved Open Question — no redundant notification).
func (l *TSLink) Bind(output *TSOutputView, elementIndex int, now EngineTime) {
	if l.boundOutput == output && l.elementIndex == elementIndex {
		return
	}
	if l.active && l.Bound() {
		l.subscribeTarget(false)
	}
	l.boundOutput = output
	l.elementIndex = elementIndex
	l.notifyOnce = false
	if l.isRefInput {
		l.sampleTime = now
		outputIsRef := output != nil && output.schema.Kind == TSRef
		l.notifyOnce = !outputIsRef
	}
	if l.active {
		l.subscribeTarget(true)
	}
}

// Unbind detaches this link, unsubscribing but preserving the active flag so
// a later Bind auto-subscribes again.
func (l *TSLink) Unbind() {
	if l.active && l.Bound() {
		l.subscribeTarget(false)
	}
	l.boundOutput = nil
	l.elementIndex = -1
}

func (l *TSLink) subscribeTarget(subscribe bool) {
	ov := l.boundOutput.overlay
	if l.elementIndex >= 0 {
		ov = l.boundOutput.Index(l.elementIndex).overlay
	}
	if subscribe {
		ov.Subscribe(l)
	} else {
		ov.Unsubscribe(l)
	}
}

// MakeActive subscribes this link (and its children, for a composite input)
// to its bound output's overlay.
func (l *TSLink) MakeActive() {
	if l.active {
		return
	}
	l.active = true
	if l.Bound() {
		l.subscribeTarget(true)
	}
	for _, c := range l.children {
		c.MakeActive()
	}
}

// MakePassive unsubscribes this link (and its children) without losing the
// binding itself.
func (l *TSLink) MakePassive() {
	if !l.active {
		return
	}
	if l.Bound() {
		l.subscribeTarget(false)
	}
	l.active = false
	for _, c := range l.children {
		c.MakePassive()
	}
}

// Notify implements Subscriber: it is called by the bound output's Overlay
// when that overlay advances. notify(t) is a no-op when notify_time == t
// (spec.md §4.4 "Deduplication" — at most once per cycle per link), and in
// notify_once mode it fires only for the sample_time cycle, then never again.
func (l *TSLink) Notify(t EngineTime) {
	if l.notifyTime == t {
		return
	}
	if l.notifyOnce && t != l.sampleTime {
		return
	}
	l.notifyTime = t
	if l.onNotify != nil {
		l.onNotify(t)
	}
}

// Resolve follows this link to the view a reader should actually navigate,
// dereferencing through any chain of peered Ref outputs (spec.md §4.4
// "Navigation transparency"). The walk stops at the first Ref output that is
// empty or holds a dangling token and returns that Ref output itself.
func (l *TSLink) Resolve() LinkTarget {
	if !l.Bound() {
		return LinkTarget{elementIndex: -1}
	}
	target := LinkTarget{output: *l.boundOutput, elementIndex: l.elementIndex}
	for target.output.schema.Kind == TSRef {
		ref, ok := target.output.value.composite.(*collections.Reference)
		if !ok || ref.Kind() != collections.RefPeered {
			break
		}
		token, ok := ref.Target().(RefToken)
		if !ok || token.Dangling() {
			break
		}
		target = LinkTarget{output: *token.output, elementIndex: -1}
	}
	return target
}
