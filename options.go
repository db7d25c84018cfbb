package incr

import (
	"log/slog"

	"github.com/AnatoleLucet/incr/internal"
)

// ReadPolicy decides what Get does on an invalidated node.
type ReadPolicy = internal.ReadPolicy

const (
	// ReadPermissive keeps serving values after invalidation. This is the default.
	ReadPermissive = internal.ReadPermissive

	// ReadStrict makes Get fail with ErrInvalidated after invalidation.
	ReadStrict = internal.ReadStrict
)

// Option configures a cell or a computed cell.
type Option func(*internal.Config)

// WithName names the node in errors and logs.
func WithName(name string) Option {
	return func(c *internal.Config) { c.Name = name }
}

// WithLogger overrides the goroutine's logger for this node.
func WithLogger(l *slog.Logger) Option {
	return func(c *internal.Config) { c.Logger = l }
}

// WithReadPolicy sets how Get behaves once the node is invalidated.
func WithReadPolicy(p ReadPolicy) Option {
	return func(c *internal.Config) { c.Policy = p }
}

func newConfig(opts []Option) internal.Config {
	var cfg internal.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
