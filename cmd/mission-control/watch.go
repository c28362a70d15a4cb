package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/client"
	"github.com/Guliveer/mission-control/internal/config"
	"github.com/Guliveer/mission-control/internal/tui"
)

var (
	apiURL     string
	plainWatch bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a running server from the terminal",
	Long: `Polls every endpoint of a running server and renders a live dashboard.
When stdout is not a terminal, one line is printed per widget update instead.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&apiURL, "api", "", "API base URL (default from config, http://127.0.0.1:3030)")
	watchCmd.Flags().BoolVar(&plainWatch, "plain", false, "Print plain lines even on a terminal")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.CLIOverrides{APIURL: apiURL})
	if err != nil {
		return err
	}

	interactive := !plainWatch && isatty.IsTerminal(os.Stdout.Fd())

	// The dashboard owns the screen, so only the log file (if any) gets logs.
	var console io.Writer = os.Stderr
	if interactive {
		console = nil
	}
	logger := initLogger(cfg, console)
	defer logger.Sync()

	widgets := tui.NewWidgets(client.New(cfg.Poll.APIURL),
		cfg.Poll.SystemInterval.Duration, cfg.Poll.Interval.Duration, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !interactive {
		printer := tui.NewPlainPrinter(cmd.OutOrStdout())
		widgets.OnUpdate(printer.Print)
		logger.Info("Watching", zap.String("api", cfg.Poll.APIURL))
		widgets.Run(ctx)
		return nil
	}

	program := tea.NewProgram(tui.NewDashboard(cfg.Poll.APIURL, widgets.Refresh), tea.WithAltScreen())
	widgets.OnUpdate(func(msg interface{}) { program.Send(msg) })

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		widgets.Run(pollCtx)
		close(done)
	}()
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	_, err = program.Run()
	cancel()
	<-done
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
