package internal

import (
	"log/slog"
	"sync/atomic"
)

// Node is the capability shared by cells and computed cells.
type Node interface {
	// Get returns the node's current value, recomputing it first if needed.
	Get() (any, error)

	// Version increases every time the node's value or status changes.
	Version() uint64

	// IsStale reports whether the node would recompute on the next Get.
	// It never recomputes anything itself.
	IsStale() bool

	// IsInvalidated reports whether the node, or one of its transitive upstreams, has been retired.
	IsInvalidated() bool

	// Invalidate retires the node permanently.
	Invalidate()

	// Name returns the debugging name given at construction, if any.
	Name() string

	// outdated is IsStale without the node's own invalidation flag:
	// whether Get would have to recompute to reflect the upstreams.
	outdated() bool
}

type ReadPolicy int

const (
	// ReadPermissive lets Get keep returning values after invalidation.
	ReadPermissive ReadPolicy = iota
	// ReadStrict makes Get fail with ErrInvalidated once a node is invalidated.
	ReadStrict
)

func (p ReadPolicy) String() string {
	switch p {
	case ReadPermissive:
		return "permissive"
	case ReadStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Config holds the per-node settings collected from options.
type Config struct {
	Name   string
	Logger *slog.Logger
	Policy ReadPolicy
}

// baseNode holds the state every node kind shares.
type baseNode struct {
	rt     *Runtime
	name   string
	logger *slog.Logger
	policy ReadPolicy

	// bumped on every value or status change, never decreases
	version uint64

	// once true, never reset
	invalidated bool
}

func (r *Runtime) newBase(cfg Config) baseNode {
	logger := cfg.Logger
	if logger == nil {
		logger = r.Logger()
	}

	return baseNode{
		rt:     r,
		name:   cfg.Name,
		logger: logger,
		policy: cfg.Policy,
	}
}

func (n *baseNode) Name() string    { return n.name }
func (n *baseNode) Version() uint64 { return n.version }

// bump records a new value of this node only.
// Downstream answers already cached for the current epoch stay valid.
func (n *baseNode) bump() {
	n.version++
}

// touch records a change that can turn fresh nodes stale, dropping every cached answer.
func (n *baseNode) touch() {
	n.bump()
	epoch.Add(1)
}

// latch marks the node invalidated, reporting whether this call did it.
func (n *baseNode) latch() bool {
	if n.invalidated {
		return false
	}

	n.invalidated = true
	n.touch()
	n.rt.stats.Invalidations++

	return true
}

func (n *baseNode) label() string {
	if n.name == "" {
		return "<unnamed>"
	}
	return n.name
}

// epoch advances on every change that can turn a fresh node stale or
// invalidated. It is shared by all runtimes since a graph may mix nodes
// created on different goroutines.
var epoch atomic.Uint64

// memo caches a boolean answer for one epoch, so a query visits each
// node once however many paths lead to it.
type memo struct {
	epoch uint64
	set   bool
	value bool
}

func (m *memo) get() (value, ok bool) {
	if !m.set || m.epoch != epoch.Load() {
		return false, false
	}
	return m.value, true
}

func (m *memo) store(v bool) bool {
	m.epoch, m.set, m.value = epoch.Load(), true, v
	return v
}
