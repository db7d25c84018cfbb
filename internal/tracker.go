package internal

type Tracker struct {
	currentOwner *Owner // for invalidation scopes

	// computed cells currently recomputing, innermost last
	stack []*Computed
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	prev := t.currentOwner
	t.currentOwner = owner
	defer func() { t.currentOwner = prev }()

	fn()
}

func (t *Tracker) RunWithComputation(node *Computed, fn func()) {
	t.stack = append(t.stack, node)
	defer func() { t.stack = t.stack[:len(t.stack)-1] }()

	fn()
}

func (t *Tracker) CurrentOwner() *Owner {
	return t.currentOwner
}

func (t *Tracker) CurrentComputation() *Computed {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// Depth is the number of nested recomputations in progress.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

// ParentName names the computation that pulled the innermost one, if any.
func (t *Tracker) ParentName() string {
	if len(t.stack) < 2 {
		return ""
	}
	return t.stack[len(t.stack)-2].name
}
