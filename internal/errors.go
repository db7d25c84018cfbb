package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMutation is returned by Set on a computed cell.
	ErrUnsupportedMutation = errors.New("cannot set a cell derived from other cells")

	// ErrCellTerminated is returned by Set on an invalidated cell.
	ErrCellTerminated = errors.New("cell has been invalidated")

	// ErrPrecondition covers construction and read misuse,
	// e.g. a computed cell without upstreams or a read of an empty cell.
	ErrPrecondition = errors.New("precondition violated")

	// ErrInvalidated is returned by Get on invalidated nodes using ReadStrict.
	ErrInvalidated = errors.New("node is invalidated")

	// ErrComputePanic wraps a panic raised by a combining function.
	ErrComputePanic = errors.New("combining function panicked")
)

// NodeError attaches the failing node and operation to an error.
type NodeError struct {
	Node string
	Op   string
	Err  error
}

func (e *NodeError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func nodeError(name, op string, err error) *NodeError {
	return &NodeError{Node: name, Op: op, Err: err}
}
