package internal

import (
	"fmt"
	"iter"
	"slices"
)

type Computed struct {
	baseNode

	// in the combining function's argument order
	upstreams []Node

	// version of each upstream observed when cached was computed
	lastSeen []uint64

	combine func([]any) any

	cached   any
	computed bool

	// per-epoch answers of outdated and of a negative IsInvalidated
	fresh memo
	clean memo
}

// NewComputed creates a computed cell over the given upstreams.
// combine must be pure, it receives the upstream values in declared order.
func (r *Runtime) NewComputed(upstreams []Node, combine func([]any) any, cfg Config) (*Computed, error) {
	if len(upstreams) == 0 {
		return nil, nodeError(cfg.Name, "new", fmt.Errorf("%w: computed cell needs at least one upstream", ErrPrecondition))
	}
	if combine == nil {
		return nil, nodeError(cfg.Name, "new", fmt.Errorf("%w: nil combining function", ErrPrecondition))
	}
	for i, up := range upstreams {
		if up == nil {
			return nil, nodeError(cfg.Name, "new", fmt.Errorf("%w: upstream %d is nil", ErrPrecondition, i))
		}
	}

	c := &Computed{
		baseNode: r.newBase(cfg),

		upstreams: append([]Node(nil), upstreams...),
		lastSeen:  make([]uint64, len(upstreams)),
		combine:   combine,
	}

	if owner := r.CurrentOwner(); owner != nil {
		owner.Add(c)
	}

	return c, nil
}

func (c *Computed) Get() (any, error) {
	if c.IsInvalidated() && c.policy == ReadStrict {
		return nil, nodeError(c.name, "get", ErrInvalidated)
	}

	// an invalidated node keeps serving cached until its inputs move
	if !c.outdated() {
		return c.cached, nil
	}

	var err error
	c.rt.tracker.RunWithComputation(c, func() {
		err = c.recompute()
	})
	if err != nil {
		return nil, err
	}

	return c.cached, nil
}

// Peek returns the cached value without checking freshness.
func (c *Computed) Peek() (any, bool) {
	return c.cached, c.computed
}

// Set always fails, a computed cell is derived, never assigned.
func (c *Computed) Set(any) error {
	return nodeError(c.name, "set", ErrUnsupportedMutation)
}

func (c *Computed) recompute() error {
	values := make([]any, len(c.upstreams))
	versions := make([]uint64, len(c.upstreams))

	for i, up := range c.upstreams {
		// a node listed in several slots is pulled once
		if j := slices.Index(c.upstreams[:i], up); j >= 0 {
			values[i], versions[i] = values[j], versions[j]
			continue
		}

		v, err := up.Get()
		if err != nil {
			return nodeError(c.name, "get", err)
		}

		values[i] = v
		versions[i] = up.Version()
	}

	result, err := c.apply(values)
	if err != nil {
		return err
	}

	c.cached = result
	c.computed = true
	copy(c.lastSeen, versions)
	c.bump()
	c.fresh = memo{}
	c.rt.stats.Recomputes++

	c.logger.Debug("recompute",
		"node", c.label(),
		"version", c.version,
		"depth", c.rt.tracker.Depth(),
		"parent", c.rt.tracker.ParentName(),
	)

	return nil
}

func (c *Computed) apply(values []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = nodeError(c.name, "compute", fmt.Errorf("%w: %v", ErrComputePanic, r))
		}
	}()

	return c.combine(values), nil
}

// IsStale reports whether cached no longer reflects the upstreams, or the node is invalidated.
// Only versions and flags are compared, nothing is recomputed.
func (c *Computed) IsStale() bool {
	return c.invalidated || c.outdated()
}

func (c *Computed) outdated() bool {
	if v, ok := c.fresh.get(); ok {
		return v
	}

	if !c.computed {
		return c.fresh.store(true)
	}

	for i, up := range c.upstreams {
		if up.Version() != c.lastSeen[i] || up.outdated() {
			return c.fresh.store(true)
		}
	}

	return c.fresh.store(false)
}

// IsInvalidated latches the invalidation of any upstream into this node, once.
func (c *Computed) IsInvalidated() bool {
	if c.invalidated {
		return true
	}
	if _, ok := c.clean.get(); ok {
		return false
	}

	for _, up := range c.upstreams {
		if up.IsInvalidated() {
			c.latch()
			c.logger.Debug("invalidation propagated",
				"node", c.label(),
				"from", up.Name(),
				"version", c.version,
			)
			return true
		}
	}

	c.clean.store(true)
	return false
}

// Invalidate retires the computed cell directly. Each call bumps the version.
func (c *Computed) Invalidate() {
	if !c.latch() {
		c.touch()
	}

	c.logger.Debug("computed invalidated", "node", c.label(), "version", c.version)
}

// Upstreams returns an iterator over the upstreams in declared order.
func (c *Computed) Upstreams() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, up := range c.upstreams {
			if !yield(up) {
				return
			}
		}
	}
}
