package hgraph

import "github.com/google/uuid"

// NodeID is a node's stable identity within a Graph, independent of its Go
// pointer. A peered Reference's RefToken records the target's NodeID plus
// the index Path into its output alongside the resolved output view, so a
// token can be identified by name rather than only by pointer (spec.md §3).
type NodeID uuid.UUID

// NewNodeID mints a fresh random NodeID.
func NewNodeID() NodeID { return NodeID(uuid.New()) }

func (id NodeID) String() string { return uuid.UUID(id).String() }

// RefToken is the composite identity a peered REF value stores: which node's
// output it targets, the path into that output, and the already-resolved
// view to navigate (resolution happens once at Graph.MakeRefToken time; the
// NodeID/Path pair exists so a dangling token can be diagnosed by name
// instead of only by a nil pointer).
type RefToken struct {
	Target NodeID
	Path   Path

	output *TSOutputView
}

// Dangling reports whether this token has no target view: the target node
// carried no output when Graph.MakeRefToken minted it.
func (t RefToken) Dangling() bool { return t.output == nil }
