package incr

import (
	"log/slog"

	"github.com/AnatoleLucet/incr/internal"
)

// Stats counts recomputations, invalidations and sets on the calling goroutine.
type Stats = internal.Stats

// SetLogger sets the logger of the calling goroutine.
// Nodes created afterwards on this goroutine log through it unless given WithLogger.
func SetLogger(l *slog.Logger) {
	internal.GetRuntime().SetLogger(l)
}

// GetStats returns the counters of the calling goroutine.
func GetStats() Stats {
	return internal.GetRuntime().Stats()
}

// ResetStats zeroes the counters of the calling goroutine.
func ResetStats() {
	internal.GetRuntime().ResetStats()
}
