package hgraph

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel error kinds, one per classification in the error handling design.
// Wrap with fmt.Errorf("...: %w", ErrX) to attach call-site detail while
// keeping errors.Is(err, ErrX) working for callers.
var (
	// ErrTypeMismatch is raised when binding an input to an incompatible
	// output, or applying a value of the wrong schema.
	ErrTypeMismatch = errors.New("hgraph: type mismatch")
	// ErrUnboundReference is raised navigating through an empty or dangling
	// reference; callers observe it via TSView.Valid() rather than a
	// returned error on the hot path.
	ErrUnboundReference = errors.New("hgraph: unbound reference")
	// ErrScheduleConflict is raised scheduling with a tag already in use
	// where the API forbids silent replacement.
	ErrScheduleConflict = errors.New("hgraph: schedule conflict")
	// ErrArenaOverflow is raised by Arena.CheckCanaries when a recorded
	// canary does not match the arena's sentinel.
	ErrArenaOverflow = errors.New("hgraph: arena overflow")
	// ErrNodeEvalException wraps a panic/error raised by a node's do_eval.
	ErrNodeEvalException = errors.New("hgraph: node evaluation exception")
	// ErrInvariantViolation marks a broken core invariant (monotonicity,
	// canary corruption) — always fatal.
	ErrInvariantViolation = errors.New("hgraph: invariant violation")
)

// ErrComponentNotRegistered names a shape the TypeMeta registry has never
// interned. Registry.Register mints a new TypeMeta for an unseen shape, so
// no function in this package currently returns it.
var ErrComponentNotRegistered = errors.New("hgraph: type not registered")

// wrapFatal attaches a stack trace to the three error kinds the engine never
// recovers from (ArenaOverflow, an uncaptured NodeEvalException,
// InvariantViolation) so a host can log a useful diagnostic even though the
// cycle that raised it is being torn down.
func wrapFatal(kind error, detail string) error {
	return pkgerrors.WithStack(fmt.Errorf("%s: %w", detail, kind))
}

// NodeEvalError carries the node and path context spec.md §7 requires on an
// InvariantViolation/NodeEvalException diagnostic.
type NodeEvalError struct {
	NodeName string
	Path     Path
	Err      error
}

func (e *NodeEvalError) Error() string {
	return fmt.Sprintf("hgraph: node %q at %s: %v", e.NodeName, e.Path, e.Err)
}

func (e *NodeEvalError) Unwrap() error { return e.Err }

// newNodeEvalException wraps a do_eval failure, attaching a stack trace since
// an uncaptured exception aborts the cycle and propagates to the host.
func newNodeEvalException(nodeName string, path Path, cause error) error {
	return wrapFatal(ErrNodeEvalException, fmt.Sprintf("node %q at %s: %v", nodeName, path, cause))
}
