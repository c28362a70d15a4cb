// Package collector defines the Collector interface and the source readers
// behind each dashboard endpoint. Every reader rebuilds its records from the
// external source on each call; nothing is cached.
package collector

import "context"

// Collector is the interface that all source readers implement.
// Each collector reads one external source.
type Collector interface {
	// Name returns the unique identifier for this collector.
	Name() string

	// Collect reads the source and returns its normalized records.
	// The context allows for cancellation and timeout control.
	Collect(ctx context.Context) (interface{}, error)

	// IsAvailable checks if this collector can run with the current
	// configuration. Collectors that return false will not be registered.
	IsAvailable() bool
}
