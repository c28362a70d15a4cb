// Package poller implements per-widget periodic fetching. Each poller owns
// one fetch function, fires it immediately and then on every tick, and keeps
// the last known state for rendering.
//
// A tick supersedes the fetch still in flight: the older request is
// cancelled and its result, if it arrives anyway, is discarded. State only
// ever reflects the newest generation.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is the lifecycle position of a poller.
type Phase int

const (
	// Loading means no fetch has completed yet.
	Loading Phase = iota
	// Ready means the latest completed fetch succeeded.
	Ready
	// Failed means the latest completed fetch failed.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of a poller. In Failed, Data still holds the last
// successful payload when HasData is set.
type State[T any] struct {
	Name       string
	Phase      Phase
	Data       T
	HasData    bool
	Err        error
	UpdatedAt  time.Time
	Generation uint64
}

// FetchFunc retrieves one payload. It must honor ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller runs a FetchFunc on an interval.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	state    State[T]
	gen      uint64
	cancel   context.CancelFunc
	onUpdate func(State[T])

	refresh  chan struct{}
	inflight sync.WaitGroup
}

// New creates a poller. A nil logger disables logging.
func New[T any](name string, interval time.Duration, fetch FetchFunc[T], logger *zap.Logger) *Poller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   logger.With(zap.String("widget", name)),
		now:      time.Now,
		state:    State[T]{Name: name, Phase: Loading},
		refresh:  make(chan struct{}, 1),
	}
}

// Name returns the widget name.
func (p *Poller[T]) Name() string { return p.name }

// OnUpdate sets the callback invoked after every state change. It must be
// set before Run.
func (p *Poller[T]) OnUpdate(fn func(State[T])) {
	p.mu.Lock()
	p.onUpdate = fn
	p.mu.Unlock()
}

// State returns the current state.
func (p *Poller[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Refresh requests an immediate fetch. It never blocks; requests made
// while one is pending are merged.
func (p *Poller[T]) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Run fetches immediately and then once per interval until ctx is done.
// On return the in-flight fetch has been cancelled and has finished.
func (p *Poller[T]) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.inflight.Wait()
	defer p.stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.refresh:
			p.poll(ctx)
		}
	}
}

// poll starts a new generation, cancelling the previous one.
func (p *Poller[T]) poll(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer cancel()
		data, err := p.fetch(fetchCtx)
		if fetchCtx.Err() != nil {
			// Superseded or shutting down; whatever came back is stale.
			p.logger.Debug("Fetch cancelled", zap.Uint64("generation", gen))
			return
		}
		p.complete(gen, data, err)
	}()
}

// complete records the outcome of generation gen. Results from a
// superseded generation are dropped.
func (p *Poller[T]) complete(gen uint64, data T, err error) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		p.logger.Debug("Discarding stale result",
			zap.Uint64("generation", gen),
			zap.Error(err))
		return
	}

	p.state.Generation = gen
	p.state.UpdatedAt = p.now()
	if err != nil {
		p.state.Phase = Failed
		p.state.Err = err
	} else {
		p.state.Phase = Ready
		p.state.Data = data
		p.state.HasData = true
		p.state.Err = nil
	}
	state := p.state
	fn := p.onUpdate
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("Fetch failed", zap.Error(err))
	} else {
		p.logger.Debug("Fetch succeeded", zap.Uint64("generation", gen))
	}
	if fn != nil {
		fn(state)
	}
}

// stop cancels the in-flight fetch and invalidates its generation.
func (p *Poller[T]) stop() {
	p.mu.Lock()
	p.gen++
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
}
