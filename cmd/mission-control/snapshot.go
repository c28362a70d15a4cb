package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Guliveer/mission-control/internal/collector"
	"github.com/Guliveer/mission-control/internal/config"
	"github.com/Guliveer/mission-control/internal/models"
)

var snapshotFormat string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Read every source once and print the result",
	Long: `Runs every reader in-process, without a server, and prints the combined
result. The default format is a table on a terminal and JSON otherwise.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", "", "Output format: table or json")
}

func defaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return "table"
	}
	return "json"
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.CLIOverrides{})
	if err != nil {
		return err
	}
	logger := initLogger(cfg, os.Stderr)
	defer logger.Sync()

	_, registry := buildSources(cfg, logger)
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Sources.CronTimeout.Duration+5*time.Second)
	defer cancel()

	format := strings.ToLower(strings.TrimSpace(snapshotFormat))
	if format == "" {
		format = defaultFormat()
	}
	return printSnapshot(cmd.OutOrStdout(), registry.CollectAll(ctx), format)
}

// snapshotEntry is one source in JSON output.
type snapshotEntry struct {
	Source string      `json:"source"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func printSnapshot(w io.Writer, results []collector.Result, format string) error {
	switch format {
	case "json":
		entries := make([]snapshotEntry, 0, len(results))
		for _, r := range results {
			e := snapshotEntry{Source: r.Name, Data: r.Data}
			if r.Error != nil {
				e = snapshotEntry{Source: r.Name, Error: r.Error.Error()}
			}
			entries = append(entries, e)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SOURCE\tSTATUS\tSUMMARY")
		for _, r := range results {
			if r.Error != nil {
				fmt.Fprintf(tw, "%s\terror\t%s\n", r.Name, r.Error)
				continue
			}
			fmt.Fprintf(tw, "%s\tok\t%s\n", r.Name, summarize(r.Data))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("invalid --format value %q (want table or json)", format)
	}
}

// summarize renders one collector payload as a short table cell.
func summarize(data interface{}) string {
	switch d := data.(type) {
	case []models.AgentRecord:
		c := models.CountAgents(d)
		return fmt.Sprintf("%d agents: %d active, %d busy, %d idle", c.Total, c.Active, c.Busy, c.Idle)
	case []models.TaskRecord:
		c := models.CountTasks(d)
		return fmt.Sprintf("%d tasks: %d todo, %d in-progress, %d blocked, %d done",
			c.Total, c.Todo, c.InProgress, c.Blocked, c.Done)
	case *models.TradingSnapshot:
		return fmt.Sprintf("portfolio %.2f, pnl %.2f (%.2f%%), %d positions",
			d.TotalPortfolioValue, d.PnL.Value, d.PnL.Percent, len(d.Positions))
	case *models.SystemMetrics:
		return fmt.Sprintf("%s cpu %d%%, mem %d%%, up %s",
			d.Hostname, d.CPU.UsagePercent, d.Memory.Percent, d.Uptime.Formatted)
	case *models.CronListing:
		c := models.CountCrons(d.Jobs)
		s := fmt.Sprintf("%d jobs: %d active, %d disabled", c.Total, c.Active, c.Disabled)
		if d.Origin.IsFallback() {
			s += " (" + collector.FallbackNote + ")"
		}
		return s
	default:
		return fmt.Sprintf("%v", d)
	}
}
