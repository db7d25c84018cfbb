package incr

import "github.com/AnatoleLucet/incr/internal"

// Scope groups nodes so they can be invalidated together.
type Scope struct {
	owner *internal.Owner
}

// NewScope creates a scope. When called inside another scope's Run,
// the new scope becomes its child and is invalidated with it.
func NewScope() *Scope {
	return &Scope{
		internal.GetRuntime().NewOwner(),
	}
}

// Run calls fn with this scope as the current one.
// Every node and scope created within fn is attached to it.
func (s *Scope) Run(fn func()) {
	s.owner.Run(internal.GetRuntime(), fn)
}

// Add attaches existing nodes to the scope.
// Nodes added to an already invalidated scope are invalidated right away.
// Nil entries are skipped.
func (s *Scope) Add(nodes ...AnyNode) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		s.owner.Add(n.node())
	}
}

// Invalidate invalidates every node of the scope and of its child scopes.
func (s *Scope) Invalidate() { s.owner.Invalidate() }

func (s *Scope) IsInvalidated() bool { return s.owner.IsInvalidated() }
