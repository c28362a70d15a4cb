// Package tui renders the terminal dashboard. Cards are driven entirely by
// poller state messages; the model performs no I/O of its own.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Guliveer/mission-control/internal/poller"
)

const (
	minCardWidth = 36
	maxListRows  = 8
)

type tickMsg time.Time

// Dashboard is the bubbletea model for the watch command.
type Dashboard struct {
	apiURL  string
	refresh func()
	now     func() time.Time

	width int

	system  SystemState
	agents  AgentsState
	tasks   TasksState
	trading TradingState
	crons   CronsState
}

// NewDashboard creates the model. refresh is invoked on the "r" key.
func NewDashboard(apiURL string, refresh func()) *Dashboard {
	if refresh == nil {
		refresh = func() {}
	}
	return &Dashboard{
		apiURL:  apiURL,
		refresh: refresh,
		now:     time.Now,
		width:   2*minCardWidth + 4,
		system:  SystemState{Name: "system"},
		agents:  AgentsState{Name: "agents"},
		tasks:   TasksState{Name: "tasks"},
		trading: TradingState{Name: "trading"},
		crons:   CronsState{Name: "crons"},
	}
}

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd re-renders once a second so "updated ago" labels stay current.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return d, tea.Quit
		case "r":
			d.refresh()
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width

	case tickMsg:
		return d, tickCmd()

	// Callbacks run outside the poller lock, so an older generation can
	// arrive after a newer one.
	case SystemState:
		if msg.Generation >= d.system.Generation {
			d.system = msg
		}
	case AgentsState:
		if msg.Generation >= d.agents.Generation {
			d.agents = msg
		}
	case TasksState:
		if msg.Generation >= d.tasks.Generation {
			d.tasks = msg
		}
	case TradingState:
		if msg.Generation >= d.trading.Generation {
			d.trading = msg
		}
	case CronsState:
		if msg.Generation >= d.crons.Generation {
			d.crons = msg
		}
	}
	return d, nil
}

// View implements tea.Model
func (d *Dashboard) View() string {
	cardWidth := (d.width - 4) / 2
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}
	now := d.now()

	system := d.card("System", d.system.Phase, d.system.HasData, d.system.Err, d.system.UpdatedAt, now,
		func() []string { return systemLines(d.system.Data) }, cardWidth)
	trading := d.card("Trading", d.trading.Phase, d.trading.HasData, d.trading.Err, d.trading.UpdatedAt, now,
		func() []string { return tradingLines(d.trading.Data) }, cardWidth)
	agents := d.card("Agents", d.agents.Phase, d.agents.HasData, d.agents.Err, d.agents.UpdatedAt, now,
		func() []string { return agentLines(d.agents.Data) }, cardWidth)
	tasks := d.card("Tasks", d.tasks.Phase, d.tasks.HasData, d.tasks.Err, d.tasks.UpdatedAt, now,
		func() []string { return taskLines(d.tasks.Data) }, cardWidth)
	crons := d.card("Crons", d.crons.Phase, d.crons.HasData, d.crons.Err, d.crons.UpdatedAt, now,
		func() []string { return cronLines(d.crons.Data) }, 2*cardWidth+2)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Mission Control"))
	b.WriteString(mutedStyle.Render(" " + d.apiURL))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, system, trading))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, agents, tasks))
	b.WriteString("\n")
	b.WriteString(crons)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r refresh • q quit"))
	b.WriteString("\n")
	return b.String()
}

// card renders one widget. Loading, failure and data are shown
// independently per card; a failed card keeps its last payload.
func (d *Dashboard) card(title string, phase poller.Phase, hasData bool, err error, updated, now time.Time, body func() []string, width int) string {
	lines := []string{cardTitleStyle.Render(title)}

	switch phase {
	case poller.Loading:
		lines = append(lines, mutedStyle.Render("loading..."))
	case poller.Failed:
		lines = append(lines, errorStyle.Render("error: "+err.Error()))
	}
	if hasData {
		lines = append(lines, body()...)
	}
	if !updated.IsZero() {
		lines = append(lines, mutedStyle.Render("updated "+humanize.RelTime(updated, now, "ago", "from now")))
	}

	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "active":
		return successStyle
	case "busy", "in-progress":
		return warningStyle
	case "offline", "blocked", "disabled":
		return errorStyle
	default:
		return mutedStyle
	}
}

func truncateRows(lines []string, total int) []string {
	if total > maxListRows {
		return append(lines[:maxListRows], mutedStyle.Render(fmt.Sprintf("... %d more", total-maxListRows)))
	}
	return lines
}
