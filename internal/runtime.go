package internal

import (
	"log/slog"
)

// Stats counts engine activity on a runtime.
type Stats struct {
	Recomputes    uint64
	Invalidations uint64
	Sets          uint64
}

type Runtime struct {
	logger  *slog.Logger
	tracker *Tracker
	stats   Stats
}

func NewRuntime() *Runtime {
	return &Runtime{
		logger:  slog.New(slog.DiscardHandler),
		tracker: NewTracker(),
	}
}

func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

// SetLogger sets the logger used by nodes created afterwards without their own.
// A nil logger discards.
func (r *Runtime) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	r.logger = l
}

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

func (r *Runtime) CurrentComputation() *Computed {
	return r.tracker.CurrentComputation()
}

func (r *Runtime) Stats() Stats {
	return r.stats
}

func (r *Runtime) ResetStats() {
	r.stats = Stats{}
}
