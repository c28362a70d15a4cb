package collector

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Result holds the output of a single collector run.
type Result struct {
	Name  string
	Data  interface{}
	Error error
}

// Registry manages all registered collectors and runs them concurrently.
// Collectors are registered at startup and read-only afterwards.
type Registry struct {
	collectors []Collector
	logger     *zap.Logger
}

// NewRegistry creates a new collector registry with the given logger.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		collectors: make([]Collector, 0),
		logger:     logger,
	}
}

// Register adds a collector if it's available with the current configuration.
// Unavailable collectors are logged and skipped.
func (r *Registry) Register(c Collector) {
	if c.IsAvailable() {
		r.collectors = append(r.collectors, c)
		r.logger.Info("Registered collector", zap.String("name", c.Name()))
	} else {
		r.logger.Warn("Collector not available, skipping", zap.String("name", c.Name()))
	}
}

// Get returns the registered collector with the given name.
func (r *Registry) Get(name string) (Collector, bool) {
	for _, c := range r.collectors {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// CollectAll runs all registered collectors concurrently and returns their
// results in registration order. A failed or panicking collector is logged
// and reported in its Result without affecting the others.
func (r *Registry) CollectAll(ctx context.Context) []Result {
	results := make([]Result, len(r.collectors))
	var wg sync.WaitGroup

	for i, c := range r.collectors {
		wg.Add(1)
		go func(i int, col Collector) {
			defer wg.Done()
			res := Result{Name: col.Name()}
			defer func() {
				if p := recover(); p != nil {
					res.Error = fmt.Errorf("collector %s panicked: %v", col.Name(), p)
				}
				if res.Error != nil {
					r.logger.Error("Collection failed",
						zap.String("collector", col.Name()),
						zap.Error(res.Error))
				}
				results[i] = res
			}()
			res.Data, res.Error = col.Collect(ctx)
		}(i, c)
	}

	wg.Wait()
	return results
}

// Collectors returns a copy of all registered collectors.
func (r *Registry) Collectors() []Collector {
	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}
