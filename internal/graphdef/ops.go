package graphdef

import (
	"maps"
	"math"
	"slices"
)

// Op combines the input values of a computed node, followed by its constants.
type Op struct {
	// bounds on len(inputs)+len(consts), MaxArgs 0 means unbounded
	MinArgs int
	MaxArgs int

	Fn func([]float64) float64
}

var ops = map[string]Op{
	"add": {MinArgs: 1, Fn: func(v []float64) float64 {
		var out float64
		for _, x := range v {
			out += x
		}
		return out
	}},
	"sub": {MinArgs: 1, Fn: func(v []float64) float64 {
		out := v[0]
		for _, x := range v[1:] {
			out -= x
		}
		return out
	}},
	"mul": {MinArgs: 1, Fn: func(v []float64) float64 {
		out := 1.0
		for _, x := range v {
			out *= x
		}
		return out
	}},
	"div": {MinArgs: 1, Fn: func(v []float64) float64 {
		out := v[0]
		for _, x := range v[1:] {
			out /= x
		}
		return out
	}},
	"min": {MinArgs: 1, Fn: func(v []float64) float64 { return slices.Min(v) }},
	"max": {MinArgs: 1, Fn: func(v []float64) float64 { return slices.Max(v) }},
	"avg": {MinArgs: 1, Fn: func(v []float64) float64 {
		var sum float64
		for _, x := range v {
			sum += x
		}
		return sum / float64(len(v))
	}},
	"neg": {MinArgs: 1, MaxArgs: 1, Fn: func(v []float64) float64 { return -v[0] }},
	"abs": {MinArgs: 1, MaxArgs: 1, Fn: func(v []float64) float64 { return math.Abs(v[0]) }},
}

// LookupOp returns the operation registered under name.
func LookupOp(name string) (Op, bool) {
	op, ok := ops[name]
	return op, ok
}

// OpNames lists the known operations, sorted.
func OpNames() []string {
	return slices.Sorted(maps.Keys(ops))
}

func (o Op) accepts(n int) bool {
	if n < o.MinArgs {
		return false
	}
	return o.MaxArgs == 0 || n <= o.MaxArgs
}
