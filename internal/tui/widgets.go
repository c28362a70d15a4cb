package tui

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/client"
	"github.com/Guliveer/mission-control/internal/models"
	"github.com/Guliveer/mission-control/internal/poller"
)

// Widget state messages. Each poller publishes its own State type, which
// doubles as the tea.Msg delivered to the dashboard.
type (
	SystemState  = poller.State[*models.SystemMetrics]
	AgentsState  = poller.State[*client.Agents]
	TasksState   = poller.State[*client.Tasks]
	TradingState = poller.State[*models.TradingSnapshot]
	CronsState   = poller.State[*client.Crons]
)

// Widgets holds one poller per dashboard card.
type Widgets struct {
	System  *poller.Poller[*models.SystemMetrics]
	Agents  *poller.Poller[*client.Agents]
	Tasks   *poller.Poller[*client.Tasks]
	Trading *poller.Poller[*models.TradingSnapshot]
	Crons   *poller.Poller[*client.Crons]
}

// NewWidgets creates the pollers. System metrics refresh on systemInterval,
// everything else on interval.
func NewWidgets(c *client.Client, systemInterval, interval time.Duration, logger *zap.Logger) *Widgets {
	return &Widgets{
		System:  poller.New("system", systemInterval, c.System, logger),
		Agents:  poller.New("agents", interval, c.Agents, logger),
		Tasks:   poller.New("tasks", interval, c.Tasks, logger),
		Trading: poller.New("trading", interval, c.Trading, logger),
		Crons:   poller.New("crons", interval, c.Crons, logger),
	}
}

// OnUpdate routes every state change to fn. Call before Run.
func (w *Widgets) OnUpdate(fn func(msg interface{})) {
	w.System.OnUpdate(func(s SystemState) { fn(s) })
	w.Agents.OnUpdate(func(s AgentsState) { fn(s) })
	w.Tasks.OnUpdate(func(s TasksState) { fn(s) })
	w.Trading.OnUpdate(func(s TradingState) { fn(s) })
	w.Crons.OnUpdate(func(s CronsState) { fn(s) })
}

// Refresh asks every poller for an immediate fetch.
func (w *Widgets) Refresh() {
	w.System.Refresh()
	w.Agents.Refresh()
	w.Tasks.Refresh()
	w.Trading.Refresh()
	w.Crons.Refresh()
}

// Run runs all pollers until ctx is done.
func (w *Widgets) Run(ctx context.Context) {
	runs := []func(context.Context){
		w.System.Run,
		w.Agents.Run,
		w.Tasks.Run,
		w.Trading.Run,
		w.Crons.Run,
	}
	var wg sync.WaitGroup
	for _, run := range runs {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}
	wg.Wait()
}
