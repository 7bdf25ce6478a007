package hgraph

import "github.com/google/uuid"

// NodeKind discriminates the four ways a node can appear in a graph.
type NodeKind uint8

const (
	SourcePush NodeKind = iota
	SourcePull
	Compute
	Sink
)

func (k NodeKind) String() string {
	switch k {
	case SourcePush:
		return "SourcePush"
	case SourcePull:
		return "SourcePull"
	case Compute:
		return "Compute"
	case Sink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// Injection is a bitmap of runtime facilities a node's do_eval requests. It
// is recorded on the signature; only InjectScheduler has an effect (through
// HasScheduler). NodeArgs' other accessors return their facility regardless
// of which bits are set.
type Injection uint16

const (
	InjectState Injection = 1 << iota
	InjectRecordableState
	InjectScheduler
	InjectOutputFeedback
	InjectClock
	InjectEngineAPI
	InjectLogger
	InjectNodeSelf
	InjectTraits
)

func (i Injection) Has(flag Injection) bool { return i&flag != 0 }

// InputParam is one declared input of a node's signature.
type InputParam struct {
	Name   string
	Schema *TimeSeriesMeta
}

// NodeSignature is the compile-time-fixed shape of a node, exactly spec.md
// §3's list. Derived flags are computed once by NewNodeSignature rather than
// recomputed on every evaluation.
type NodeSignature struct {
	Name   string
	Kind   NodeKind
	Inputs []InputParam
	Output *TimeSeriesMeta // nil for Sink

	RecordableState *TimeSeriesMeta // nil unless the node records replayable state
	ScalarConstants map[string]any

	WiringPath Path
	Injection  Injection

	// Derived, computed once at registration.
	HasScheduler     bool
	CapturesException bool
	CapturesValues    bool
	HasNestedGraphs   bool
	RecordReplayID    uuid.UUID
}

// NewNodeSignature builds a signature and computes its derived flags.
// recordableState is nil for the common case of a node with no replayable
// state beyond its output.
func NewNodeSignature(name string, kind NodeKind, inputs []InputParam, output, recordableState *TimeSeriesMeta, injection Injection, capturesException, capturesValues, hasNestedGraphs bool) *NodeSignature {
	sig := &NodeSignature{
		Name:              name,
		Kind:              kind,
		Inputs:            inputs,
		Output:            output,
		RecordableState:   recordableState,
		Injection:         injection,
		CapturesException: capturesException,
		CapturesValues:    capturesValues,
		HasNestedGraphs:   hasNestedGraphs,
	}
	sig.HasScheduler = injection.Has(InjectScheduler) || kind == SourcePull
	if capturesValues || hasNestedGraphs || recordableState != nil {
		sig.RecordReplayID = uuid.New()
	}
	return sig
}

// InputIndex returns the declared index of a named input, or -1.
func (s *NodeSignature) InputIndex(name string) int {
	for i, p := range s.Inputs {
		if p.Name == name {
			return i
		}
	}
	return -1
}
