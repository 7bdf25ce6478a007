package hgraph

import "github.com/hgraph-dev/hgraph-go/collections"

// builder.go is the arena/registry-driven construction glue spec.md §4.7's
// two-pass build describes in terms of a node's declared signature: given a
// NodeSignature, mint the TypeMeta backing each of its root positions
// (input bundle, output, recordable state), place a Value for each through
// the owning Graph's Arena, and attach the Delta trackers composite
// positions need. This is the piece the teacher's World never had to do
// (entities carry no declared input/output shape) — grounded instead on the
// two-pass discipline arena.go already documents, applied per node instead
// of once globally.

// tickable is one delta-bearing position discovered while attaching deltas:
// its Overlay (so the per-cycle sweep can tell whether it ticked and Reset
// its tracker) and, for Set/Dict storage, the underlying collection's
// DrainDeferred so tombstoned slots become reusable at the next cycle
// boundary (spec.md §4.1/§4.6). List/Bundle deltas have no drain step —
// their positions are never freed, only touched.
type tickable struct {
	overlay *Overlay
	drain   func()
}

// inputRootSchema synthesizes the synthetic TSBundle schema backing a node's
// TSInputRoot: one field per declared input, in declaration order.
func inputRootSchema(sig *NodeSignature) *TimeSeriesMeta {
	fields := make([]tsField, len(sig.Inputs))
	for i, p := range sig.Inputs {
		fields[i] = tsField{name: p.Name, meta: p.Schema}
	}
	return &TimeSeriesMeta{Kind: TSBundle, Fields: fields}
}

// attachDelta installs the Delta tracker a position's Kind requires onto
// overlay, recursing into bundle fields so every nested collection position
// gets its own tracker too, and appends a tickable entry to collect for
// every delta it attaches so the owning Engine can sweep them each cycle
// (spec.md §4.6's "reset per-cycle delta trackers that ticked"). Scalars,
// signals, refs, and windows need no entry: windows reset their own
// removed-set at the start of the next Push, and refs/scalars have nothing
// to delta beyond SetValue's whole-value replace.
func attachDelta(overlay *Overlay, schema *TimeSeriesMeta, value *Value, collect *[]tickable) {
	switch schema.Kind {
	case TSSet:
		set := value.composite.(*collections.Set[uint64])
		overlay.SetDelta(NewSetDelta())
		*collect = append(*collect, tickable{overlay: overlay, drain: set.DrainDeferred})
	case TSDict:
		dict := value.composite.(*collections.Map[uint64, posElement])
		overlay.SetDelta(NewMapDelta())
		*collect = append(*collect, tickable{overlay: overlay, drain: dict.DrainDeferred})
	case TSList:
		overlay.SetDelta(NewListDelta())
		*collect = append(*collect, tickable{overlay: overlay})
	case TSBundle:
		overlay.SetDelta(NewBundleDelta())
		*collect = append(*collect, tickable{overlay: overlay})
		bs := value.composite.(*bundleStorage)
		for i, f := range schema.Fields {
			attachDelta(bs.fields[i].overlay, f.meta, bs.fields[i].value, collect)
		}
	}
}

// buildRootView places one root time-series position (a node's input
// bundle, output, or recordable state) through arena and wires its Overlay
// and Delta tracker, appending every delta-bearing position found to
// collect. now is shared with the owning Graph's clock so the resulting
// view reads the same advancing "now" every other view in the graph does.
func buildRootView(reg *Registry, arena *Arena, schema *TimeSeriesMeta, now *EngineTime, collect *[]tickable) TSView {
	meta := reg.typeMetaFor(schema)
	arena.Reserve(meta)
	overlay := NewOverlay(nil)
	value := arena.Place(meta, overlay)
	attachDelta(overlay, schema, value, collect)
	return NewTSView(value, overlay, schema, now)
}

// needsRecheckValidity reports whether a declared input's validity can
// change independently of a link firing — true for reference inputs, which
// may be bound and then have their target torn down without the link itself
// ever unbinding.
func needsRecheckValidity(schema *TimeSeriesMeta) bool { return schema.Kind == TSRef }

// buildNode places n's input bundle, output, and recordable-state positions
// through the owning graph's arena/registry and wires one TSLink per
// declared input, recording every delta-bearing position onto
// n.deltaPositions so the owning Engine's per-cycle sweep can find it.
// Called once by Graph.AddNode, before the node is ever eligible for
// evaluation.
func buildNode(reg *Registry, arena *Arena, n *Node, now *EngineTime) {
	sig := n.Signature
	var collect []tickable

	inputSchema := inputRootSchema(sig)
	n.inputRoot = buildRootView(reg, arena, inputSchema, now, &collect)
	n.inputs = make([]TSInputView, len(sig.Inputs))
	for i, p := range sig.Inputs {
		fieldView := n.inputRoot.Field(i)
		link := NewTSLink(p.Schema.Kind == TSRef, n.markNotified)
		n.inputs[i] = NewTSInputView(fieldView, link)
		if needsRecheckValidity(p.Schema) {
			n.recheckValidity = append(n.recheckValidity, i)
		}
	}

	if sig.Output != nil {
		out := NewTSOutputView(buildRootView(reg, arena, sig.Output, now, &collect))
		n.output = &out
	}

	if sig.RecordableState != nil {
		rs := NewTSOutputView(buildRootView(reg, arena, sig.RecordableState, now, &collect))
		n.recordableState = &rs
	}

	n.deltaPositions = collect
}
