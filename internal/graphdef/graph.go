package graphdef

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/AnatoleLucet/incr"
)

// Graph is a built definition: live cells and computed nodes addressable by name.
type Graph struct {
	nodes map[string]incr.Node[float64]
	cells map[string]*incr.Cell[float64]

	// definition order
	order []string
}

// Result records the outcome of one action.
type Result struct {
	Step        int      `json:"step"`
	Action      string   `json:"action"`
	Node        string   `json:"node"`
	Value       *float64 `json:"value,omitempty"`
	Version     uint64   `json:"version"`
	Stale       bool     `json:"stale"`
	Invalidated bool     `json:"invalidated"`
	Error       string   `json:"error,omitempty"`
}

func (r Result) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%d] %s %s", r.Step, r.Action, r.Node)
	if r.Value != nil {
		fmt.Fprintf(&b, " value=%s", strconv.FormatFloat(*r.Value, 'g', -1, 64))
	}
	fmt.Fprintf(&b, " version=%d stale=%t invalidated=%t", r.Version, r.Stale, r.Invalidated)
	if r.Error != "" {
		fmt.Fprintf(&b, " error=%q", r.Error)
	}

	return b.String()
}

// Build validates the definition and creates its nodes.
// A nil logger leaves nodes on the goroutine's logger.
func Build(def *Definition, logger *slog.Logger) (*Graph, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	g := &Graph{
		nodes: make(map[string]incr.Node[float64]),
		cells: make(map[string]*incr.Cell[float64]),
	}

	for _, c := range def.Cells {
		opts := nodeOptions(c.Name, c.Strict, logger)

		var cell *incr.Cell[float64]
		if c.Value != nil {
			cell = incr.NewCell(*c.Value, opts...)
		} else {
			cell = incr.NewEmptyCell[float64](opts...)
		}

		g.cells[c.Name] = cell
		g.add(c.Name, cell)
	}

	for _, c := range def.Computed {
		op, _ := LookupOp(c.Op)

		inputs := make([]incr.Node[float64], len(c.Inputs))
		for i, in := range c.Inputs {
			inputs[i] = g.nodes[in]
		}

		consts := slices.Clone(c.Consts)
		combine := func(values []float64) float64 {
			return op.Fn(append(values, consts...))
		}

		node, err := incr.Combine(combine, inputs, nodeOptions(c.Name, c.Strict, logger)...)
		if err != nil {
			return nil, err
		}

		g.add(c.Name, node)
	}

	return g, nil
}

func nodeOptions(name string, strict bool, logger *slog.Logger) []incr.Option {
	opts := []incr.Option{incr.WithName(name)}
	if strict {
		opts = append(opts, incr.WithReadPolicy(incr.ReadStrict))
	}
	if logger != nil {
		opts = append(opts, incr.WithLogger(logger))
	}
	return opts
}

func (g *Graph) add(name string, n incr.Node[float64]) {
	g.nodes[name] = n
	g.order = append(g.order, name)
}

// Node returns the node named name.
func (g *Graph) Node(name string) (incr.Node[float64], bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Names lists the nodes in definition order.
func (g *Graph) Names() []string {
	return slices.Clone(g.order)
}

// Run executes steps in order. Failed actions are recorded in their result
// and do not stop the run. Steps must have been validated against this graph.
func (g *Graph) Run(steps []Step) []Result {
	var results []Result

	for i, s := range steps {
		step := i + 1

		switch s.Action() {
		case "get":
			results = append(results, g.get(step, s.Get))
		case "set":
			for _, name := range sortedKeys(s.Set) {
				results = append(results, g.set(step, name, s.Set[name]))
			}
		case "invalidate":
			n := g.nodes[s.Invalidate]
			n.Invalidate()
			results = append(results, status(step, "invalidate", s.Invalidate, n))
		case "status":
			results = append(results, status(step, "status", s.Status, g.nodes[s.Status]))
		}
	}

	return results
}

func (g *Graph) get(step int, name string) Result {
	n := g.nodes[name]

	v, err := n.Get()
	r := status(step, "get", name, n)
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Value = &v
	}

	return r
}

func (g *Graph) set(step int, name string, v float64) Result {
	c := g.cells[name]

	err := c.Set(v)
	r := status(step, "set", name, c)
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Value = &v
	}

	return r
}

// status reads the flags before the version, since querying invalidation may latch and bump it.
func status(step int, action, name string, n incr.AnyNode) Result {
	invalidated := n.IsInvalidated()
	stale := n.IsStale()

	return Result{
		Step:        step,
		Action:      action,
		Node:        name,
		Version:     n.Version(),
		Stale:       stale,
		Invalidated: invalidated,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
