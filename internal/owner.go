package internal

import (
	"iter"
	"slices"
)

// Owner groups nodes so they can be invalidated together.
type Owner struct {
	nodes []Node

	invalidated bool

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

// NewOwner creates an owner, attached as a child of the current owner if there is one.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{}

	if parent := r.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

// Run calls fn with this owner as the current one on the runtime r.
// Nodes and owners created within fn are attached to it.
func (o *Owner) Run(r *Runtime, fn func()) {
	r.tracker.RunWithOwner(o, fn)
}

func (o *Owner) Add(n Node) {
	if !slices.Contains(o.nodes, n) {
		o.nodes = append(o.nodes, n)
	}

	// late additions to an invalidated owner are retired right away
	if o.invalidated {
		n.Invalidate()
	}
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (o *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := o.childrenHead

		for child != nil {
			if !yield(child) {
				return
			}

			child = child.nextSibling
		}
	}
}

func (o *Owner) Nodes() iter.Seq[Node] {
	return slices.Values(o.nodes)
}

// Invalidate retires every node of this owner and its children. Only the first call has an effect.
func (o *Owner) Invalidate() {
	if o.invalidated {
		return
	}
	o.invalidated = true

	for child := range o.Children() {
		child.Invalidate()
	}

	for _, n := range o.nodes {
		if !n.IsInvalidated() {
			n.Invalidate()
		}
	}
}

func (o *Owner) IsInvalidated() bool {
	return o.invalidated
}
