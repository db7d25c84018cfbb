package incr

import "github.com/AnatoleLucet/incr/internal"

var (
	// ErrUnsupportedMutation is returned by Set on a computed cell.
	ErrUnsupportedMutation = internal.ErrUnsupportedMutation

	// ErrCellTerminated is returned by Set on an invalidated cell.
	ErrCellTerminated = internal.ErrCellTerminated

	// ErrPrecondition is returned when reading a cell that was never set,
	// or when creating a computed cell without upstreams.
	ErrPrecondition = internal.ErrPrecondition

	// ErrInvalidated is returned by Get on an invalidated node using ReadStrict.
	ErrInvalidated = internal.ErrInvalidated

	// ErrComputePanic is returned by Get when the combining function panicked.
	ErrComputePanic = internal.ErrComputePanic
)

// NodeError carries the node name and the operation that failed.
// Match the cause with errors.Is.
type NodeError = internal.NodeError
