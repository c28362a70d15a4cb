package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Guliveer/mission-control/internal/client"
	"github.com/Guliveer/mission-control/internal/models"
)

func systemLines(m *models.SystemMetrics) []string {
	if m == nil {
		return nil
	}
	lines := []string{
		fmt.Sprintf("CPU     %d%%  load %.2f %.2f %.2f  %d cores",
			m.CPU.UsagePercent, m.CPU.Load1, m.CPU.Load5, m.CPU.Load15, m.CPU.Cores),
		fmt.Sprintf("Memory  %.1f/%.1f %s (%d%%)", m.Memory.Used, m.Memory.Total, m.Memory.Unit, m.Memory.Percent),
		fmt.Sprintf("Uptime  %s", m.Uptime.Formatted),
		fmt.Sprintf("Host    %s %s", m.Hostname, mutedStyle.Render(m.IP)),
	}
	for _, disk := range m.Disks {
		lines = append(lines, fmt.Sprintf("Disk    %s %.1f%% of %s", disk.Mount, disk.Percent, humanize.Bytes(disk.Total)))
	}
	return lines
}

func tradingLines(s *models.TradingSnapshot) []string {
	if s == nil {
		return nil
	}
	pnlStyle := successStyle
	if !s.PnL.IsPositive {
		pnlStyle = errorStyle
	}
	lines := []string{
		fmt.Sprintf("Portfolio  %s", money(s.TotalPortfolioValue)),
		fmt.Sprintf("Cash       %s", money(s.Cash)),
		"P&L        " + pnlStyle.Render(fmt.Sprintf("%s (%.2f%%)", money(s.PnL.Value), s.PnL.Percent)),
		fmt.Sprintf("Trades     %d", s.TradeCount),
	}
	rows := make([]string, 0, len(s.Positions))
	for _, p := range s.Positions {
		rows = append(rows, fmt.Sprintf("%-6s %s @ %s = %s",
			p.Ticker, humanize.Ftoa(p.Shares), money(p.AvgPrice), money(p.Value)))
	}
	return append(lines, truncateRows(rows, len(rows))...)
}

func agentLines(a *client.Agents) []string {
	if a == nil {
		return nil
	}
	c := a.Counts
	lines := []string{mutedStyle.Render(fmt.Sprintf("%d total  %d active  %d busy  %d idle  %d offline",
		c.Total, c.Active, c.Busy, c.Idle, c.Offline))}
	rows := make([]string, 0, len(a.Agents))
	for _, ag := range a.Agents {
		rows = append(rows, fmt.Sprintf("%s %-12s %s %s",
			ag.Emoji, ag.Name, statusStyle(ag.Status).Render(ag.Status), mutedStyle.Render(ag.LastActive)))
	}
	return append(lines, truncateRows(rows, len(rows))...)
}

func taskLines(t *client.Tasks) []string {
	if t == nil {
		return nil
	}
	c := t.Counts
	lines := []string{mutedStyle.Render(fmt.Sprintf("%d total  %d todo  %d in-progress  %d blocked  %d done",
		c.Total, c.Todo, c.InProgress, c.Blocked, c.Done))}
	rows := make([]string, 0, len(t.Tasks))
	for _, task := range t.Tasks {
		row := fmt.Sprintf("%s %s", statusStyle(task.Status).Render("["+task.Status+"]"), task.Title)
		if task.Agent != "" {
			row += mutedStyle.Render(" @" + task.Agent)
		}
		rows = append(rows, row)
	}
	return append(lines, truncateRows(rows, len(rows))...)
}

func cronLines(c *client.Crons) []string {
	if c == nil {
		return nil
	}
	lines := []string{mutedStyle.Render(fmt.Sprintf("%d total  %d active  %d disabled",
		c.Counts.Total, c.Counts.Active, c.Counts.Disabled))}
	if c.Note != "" {
		lines = append(lines, warningStyle.Render(c.Note))
	}
	rows := make([]string, 0, len(c.Jobs))
	for _, j := range c.Jobs {
		rows = append(rows, fmt.Sprintf("%s %-14s %-16s %s",
			statusStyle(j.Status).Render(j.Status), j.ID, j.Schedule, mutedStyle.Render(j.Command)))
	}
	return append(lines, truncateRows(rows, len(rows))...)
}

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}
