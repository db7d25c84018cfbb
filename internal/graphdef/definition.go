// Package graphdef loads cell graphs from YAML and runs scripted steps against them.
//
// A definition lists cells with their initial values, computed nodes built
// from a named operation over earlier nodes, and steps reading, writing or
// invalidating nodes:
//
//	cells:
//	  - {name: a, value: 8}
//	  - {name: b, value: 6.5}
//	computed:
//	  - {name: c, op: mul, inputs: [a], consts: [2]}
//	  - {name: d, op: add, inputs: [c, b]}
//	steps:
//	  - get: d
//	  - set: {a: 5}
//	  - get: d
package graphdef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidDefinition = errors.New("invalid definition")

// Definition is the YAML document describing a graph.
type Definition struct {
	// Cells are the leaves of the graph.
	Cells []CellDef `yaml:"cells"`

	// Computed nodes may only take inputs defined before them,
	// which keeps every graph acyclic.
	Computed []ComputedDef `yaml:"computed"`

	// Steps are run in order by Graph.Run.
	Steps []Step `yaml:"steps,omitempty"`
}

type CellDef struct {
	Name string `yaml:"name"`

	// Value is the initial value. Cells without one start empty.
	Value *float64 `yaml:"value,omitempty"`

	// Strict makes reads fail once the cell is invalidated.
	Strict bool `yaml:"strict,omitempty"`
}

type ComputedDef struct {
	Name string `yaml:"name"`

	// Op names the combining operation, see OpNames.
	Op string `yaml:"op"`

	// Inputs are node names, passed to the operation in this order.
	Inputs []string `yaml:"inputs"`

	// Consts are appended after the input values.
	Consts []float64 `yaml:"consts,omitempty"`

	Strict bool `yaml:"strict,omitempty"`
}

// Step holds exactly one action.
type Step struct {
	Get        string             `yaml:"get,omitempty"`
	Set        map[string]float64 `yaml:"set,omitempty"`
	Invalidate string             `yaml:"invalidate,omitempty"`
	Status     string             `yaml:"status,omitempty"`
}

// Action returns the name of the step's action, or "" if none is set.
func (s Step) Action() string {
	switch {
	case s.Get != "":
		return "get"
	case len(s.Set) > 0:
		return "set"
	case s.Invalidate != "":
		return "invalidate"
	case s.Status != "":
		return "status"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Get != "", len(s.Set) > 0, s.Invalidate != "", s.Status != ""} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML definition. Unknown fields are rejected.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	return &def, nil
}

// Validate reports every problem of the definition at once.
func (d *Definition) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidDefinition}, args...)...))
	}

	// name -> is a cell
	known := make(map[string]bool)

	declare := func(kind, name string, cell bool) {
		switch {
		case strings.TrimSpace(name) == "":
			fail("%s without a name", kind)
		case hasKey(known, name):
			fail("duplicate name %q", name)
		default:
			known[name] = cell
		}
	}

	for _, c := range d.Cells {
		declare("cell", c.Name, true)
	}

	for _, c := range d.Computed {
		op, ok := LookupOp(c.Op)
		if !ok {
			fail("computed %q: unknown op %q", c.Name, c.Op)
		}
		if len(c.Inputs) == 0 {
			fail("computed %q: needs at least one input", c.Name)
		}
		if ok && !op.accepts(len(c.Inputs)+len(c.Consts)) {
			fail("computed %q: op %q does not take %d arguments", c.Name, c.Op, len(c.Inputs)+len(c.Consts))
		}
		for _, in := range c.Inputs {
			if !hasKey(known, in) {
				fail("computed %q: input %q is not defined before it", c.Name, in)
			}
		}

		// declared last so a node cannot list itself as input
		declare("computed", c.Name, false)
	}

	for i, s := range d.Steps {
		if s.actions() != 1 {
			fail("step %d: needs exactly one of get, set, invalidate, status", i+1)
			continue
		}

		for _, name := range s.targets() {
			if !hasKey(known, name) {
				fail("step %d: unknown node %q", i+1, name)
			} else if s.Action() == "set" && !known[name] {
				fail("step %d: cannot set computed node %q", i+1, name)
			}
		}
	}

	return errors.Join(errs...)
}

func (s Step) targets() []string {
	switch s.Action() {
	case "get":
		return []string{s.Get}
	case "set":
		return sortedKeys(s.Set)
	case "invalidate":
		return []string{s.Invalidate}
	case "status":
		return []string{s.Status}
	default:
		return nil
	}
}

func hasKey[K comparable, V any](m map[K]V, k K) bool {
	_, ok := m[k]
	return ok
}
