package internal

import "fmt"

type Cell struct {
	baseNode

	value    any
	hasValue bool
}

// NewCell creates a leaf cell holding initial. The initial assignment counts as a set.
func (r *Runtime) NewCell(initial any, cfg Config) *Cell {
	c := r.NewEmptyCell(cfg)
	c.value = initial
	c.hasValue = true
	c.bump()

	return c
}

// NewEmptyCell creates a leaf cell with no value at version 0.
func (r *Runtime) NewEmptyCell(cfg Config) *Cell {
	c := &Cell{baseNode: r.newBase(cfg)}

	if owner := r.CurrentOwner(); owner != nil {
		owner.Add(c)
	}

	return c
}

func (c *Cell) Get() (any, error) {
	if c.invalidated && c.policy == ReadStrict {
		return nil, nodeError(c.name, "get", ErrInvalidated)
	}

	if !c.hasValue {
		return nil, nodeError(c.name, "get", fmt.Errorf("%w: cell was never set", ErrPrecondition))
	}

	return c.value, nil
}

func (c *Cell) Set(v any) error {
	if c.invalidated {
		return nodeError(c.name, "set", ErrCellTerminated)
	}

	c.value = v
	c.hasValue = true
	c.touch()
	c.rt.stats.Sets++

	c.logger.Debug("cell set", "node", c.label(), "version", c.version)

	return nil
}

// Invalidate retires the cell. Each call bumps the version, the flag stays set.
func (c *Cell) Invalidate() {
	if !c.latch() {
		c.touch()
	}

	c.logger.Debug("cell invalidated", "node", c.label(), "version", c.version)
}

// IsStale is always false, a leaf is authoritative for itself.
func (c *Cell) IsStale() bool { return false }

func (c *Cell) IsInvalidated() bool { return c.invalidated }

func (c *Cell) outdated() bool { return false }
