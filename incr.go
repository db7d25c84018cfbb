// Package incr is a small incremental-computation engine.
//
// Cells hold values set by their owner. Computed cells derive a value from
// one or more upstream nodes and only recompute, on Get, when an upstream
// version changed since the last computation. Invalidating a cell retires
// it for good, and every computed cell downstream of it reports itself
// invalidated the next time it is asked.
//
// Nodes are not safe for concurrent use.
package incr

import "github.com/AnatoleLucet/incr/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// AnyNode is the part of a node's API that does not depend on its value type.
type AnyNode interface {
	// Version increases every time the node's value or status changes.
	Version() uint64

	// IsStale reports whether the next Get would recompute. It never recomputes.
	IsStale() bool

	// IsInvalidated reports whether the node or any of its transitive upstreams was invalidated.
	IsInvalidated() bool

	// Invalidate retires the node permanently.
	Invalidate()

	// Name returns the name given with WithName.
	Name() string

	node() internal.Node
}

// Node is a cell or a computed cell producing values of type T.
type Node[T any] interface {
	AnyNode

	// Get returns the node's value, recomputing it first if needed.
	Get() (T, error)
}

type Cell[T any] struct {
	cell *internal.Cell
}

// NewCell creates a cell holding initial, at version 1.
func NewCell[T any](initial T, opts ...Option) *Cell[T] {
	return &Cell[T]{
		internal.GetRuntime().NewCell(initial, newConfig(opts)),
	}
}

// NewEmptyCell creates a cell without a value, at version 0.
// Get fails with ErrPrecondition until the first Set.
func NewEmptyCell[T any](opts ...Option) *Cell[T] {
	return &Cell[T]{
		internal.GetRuntime().NewEmptyCell(newConfig(opts)),
	}
}

func (c *Cell[T]) Get() (T, error) {
	v, err := c.cell.Get()
	if err != nil {
		var zero T
		return zero, err
	}

	return as[T](v), nil
}

// MustGet is like Get but panics on error.
func (c *Cell[T]) MustGet() T {
	return must(c.Get())
}

// Set replaces the value and bumps the version.
// It fails with ErrCellTerminated once the cell is invalidated.
func (c *Cell[T]) Set(v T) error {
	return c.cell.Set(v)
}

func (c *Cell[T]) Version() uint64 { return c.cell.Version() }
func (c *Cell[T]) IsStale() bool { return c.cell.IsStale() }
func (c *Cell[T]) IsInvalidated() bool { return c.cell.IsInvalidated() }
func (c *Cell[T]) Invalidate() { c.cell.Invalidate() }
func (c *Cell[T]) Name() string { return c.cell.Name() }
func (c *Cell[T]) node() internal.Node { return c.cell }

type Computed[T any] struct {
	computed *internal.Computed
}

func newComputed[R any](upstreams []internal.Node, combine func([]any) any, opts []Option) (*Computed[R], error) {
	c, err := internal.GetRuntime().NewComputed(upstreams, combine, newConfig(opts))
	if err != nil {
		return nil, err
	}

	return &Computed[R]{c}, nil
}

func mustComputed[R any](c *Computed[R], err error) *Computed[R] {
	if err != nil {
		panic(err)
	}
	return c
}

// Map creates a computed cell deriving its value from a single upstream.
// It panics with ErrPrecondition if a or fn is nil.
func Map[A, R any](a Node[A], fn func(A) R, opts ...Option) *Computed[R] {
	var combine func([]any) any
	if fn != nil {
		combine = func(v []any) any {
			return fn(as[A](v[0]))
		}
	}

	return mustComputed(newComputed[R](nodes(a), combine, opts))
}

// Map2 creates a computed cell over two upstreams, passed to fn in that order.
func Map2[A, B, R any](a Node[A], b Node[B], fn func(A, B) R, opts ...Option) *Computed[R] {
	var combine func([]any) any
	if fn != nil {
		combine = func(v []any) any {
			return fn(as[A](v[0]), as[B](v[1]))
		}
	}

	return mustComputed(newComputed[R](nodes(a, b), combine, opts))
}

// Map3 creates a computed cell over three upstreams, passed to fn in that order.
func Map3[A, B, C, R any](a Node[A], b Node[B], c Node[C], fn func(A, B, C) R, opts ...Option) *Computed[R] {
	var combine func([]any) any
	if fn != nil {
		combine = func(v []any) any {
			return fn(as[A](v[0]), as[B](v[1]), as[C](v[2]))
		}
	}

	return mustComputed(newComputed[R](nodes(a, b, c), combine, opts))
}

// Combine creates a computed cell over any number of upstreams of the same type.
// fn receives their values in the order of upstreams.
// It fails with ErrPrecondition when upstreams is empty.
func Combine[T, R any](fn func([]T) R, upstreams []Node[T], opts ...Option) (*Computed[R], error) {
	ups := make([]AnyNode, len(upstreams))
	for i, up := range upstreams {
		ups[i] = up
	}

	var combine func([]any) any
	if fn != nil {
		combine = func(v []any) any {
			values := make([]T, len(v))
			for i := range v {
				values[i] = as[T](v[i])
			}
			return fn(values)
		}
	}

	return newComputed[R](nodes(ups...), combine, opts)
}

func (c *Computed[T]) Get() (T, error) {
	v, err := c.computed.Get()
	if err != nil {
		var zero T
		return zero, err
	}

	return as[T](v), nil
}

// MustGet is like Get but panics on error.
func (c *Computed[T]) MustGet() T {
	return must(c.Get())
}

// Peek returns the last computed value without checking freshness.
// ok is false before the first computation.
func (c *Computed[T]) Peek() (value T, ok bool) {
	v, ok := c.computed.Peek()
	return as[T](v), ok
}

// Set always fails with ErrUnsupportedMutation.
func (c *Computed[T]) Set(T) error {
	return c.computed.Set(nil)
}

func (c *Computed[T]) Version() uint64 { return c.computed.Version() }
func (c *Computed[T]) IsStale() bool { return c.computed.IsStale() }
func (c *Computed[T]) IsInvalidated() bool { return c.computed.IsInvalidated() }
func (c *Computed[T]) Invalidate() { c.computed.Invalidate() }
func (c *Computed[T]) Name() string { return c.computed.Name() }
func (c *Computed[T]) node() internal.Node { return c.computed }

// nodes unwraps typed nodes, leaving nil entries nil so construction can reject them.
func nodes(ns ...AnyNode) []internal.Node {
	out := make([]internal.Node, len(ns))
	for i, n := range ns {
		if n != nil {
			out[i] = n.node()
		}
	}
	return out
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
