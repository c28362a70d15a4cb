package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Guliveer/mission-control/internal/poller"
)

// PlainPrinter writes one line per widget update. It is used instead of
// the dashboard when output is not a terminal.
type PlainPrinter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewPlainPrinter creates a printer writing to w.
func NewPlainPrinter(w io.Writer) *PlainPrinter {
	return &PlainPrinter{w: w, now: time.Now}
}

// Print writes the line for a widget state message. Other values are
// ignored.
func (p *PlainPrinter) Print(msg interface{}) {
	line, ok := Summary(msg)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", p.now().UTC().Format(time.RFC3339), line)
}

// Summary renders a widget state message as a single unstyled line.
func Summary(msg interface{}) (string, bool) {
	switch s := msg.(type) {
	case SystemState:
		return summarize(s.Name, s.Phase, s.Err, s.HasData, func() string {
			m := s.Data
			return fmt.Sprintf("cpu=%d%% mem=%d%% uptime=%q host=%s ip=%s",
				m.CPU.UsagePercent, m.Memory.Percent, m.Uptime.Formatted, m.Hostname, m.IP)
		}), true
	case AgentsState:
		return summarize(s.Name, s.Phase, s.Err, s.HasData, func() string {
			c := s.Data.Counts
			return fmt.Sprintf("total=%d active=%d busy=%d idle=%d offline=%d",
				c.Total, c.Active, c.Busy, c.Idle, c.Offline)
		}), true
	case TasksState:
		return summarize(s.Name, s.Phase, s.Err, s.HasData, func() string {
			c := s.Data.Counts
			return fmt.Sprintf("total=%d todo=%d in-progress=%d blocked=%d done=%d",
				c.Total, c.Todo, c.InProgress, c.Blocked, c.Done)
		}), true
	case TradingState:
		return summarize(s.Name, s.Phase, s.Err, s.HasData, func() string {
			t := s.Data
			return fmt.Sprintf("portfolio=%.2f cash=%.2f pnl=%.2f (%.2f%%) positions=%d trades=%d",
				t.TotalPortfolioValue, t.Cash, t.PnL.Value, t.PnL.Percent, len(t.Positions), t.TradeCount)
		}), true
	case CronsState:
		return summarize(s.Name, s.Phase, s.Err, s.HasData, func() string {
			c := s.Data
			line := fmt.Sprintf("total=%d active=%d disabled=%d origin=%s",
				c.Counts.Total, c.Counts.Active, c.Counts.Disabled, c.Origin.Mode)
			if c.Note != "" {
				line += fmt.Sprintf(" note=%q", c.Note)
			}
			return line
		}), true
	default:
		return "", false
	}
}

func summarize(name string, phase poller.Phase, err error, hasData bool, data func() string) string {
	switch {
	case phase == poller.Failed:
		return fmt.Sprintf("%-7s failed: %v", name, err)
	case hasData:
		return fmt.Sprintf("%-7s %s", name, data())
	default:
		return fmt.Sprintf("%-7s %s", name, phase)
	}
}
