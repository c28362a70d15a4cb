package main

import (
	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/api"
	"github.com/Guliveer/mission-control/internal/collector"
	"github.com/Guliveer/mission-control/internal/config"
)

// buildSources creates one reader per source and registers them, in
// dashboard order, for whole-set collection.
func buildSources(cfg *config.Config, logger *zap.Logger) (api.Sources, *collector.Registry) {
	system := collector.NewSystemCollector(cfg.Sources.ProcDir, cfg.System.Hostname, cfg.System.IP, logger)
	agents := collector.NewAgentCollector(cfg.AgentsPath(), cfg.RosterMap(), logger)
	tasks := collector.NewTaskCollector(cfg.TasksPath())
	trading := collector.NewTradingCollector(cfg.TradingPath(), cfg.Trading.InitialBalance)
	crons := collector.NewCronCollector(cfg.Sources.CronCommand, cfg.Sources.CronTimeout.Duration,
		collector.ExecRunner{Dir: cfg.Sources.Root}, logger)

	registry := collector.NewRegistry(logger)
	registry.Register(system)
	registry.Register(agents)
	registry.Register(tasks)
	registry.Register(trading)
	registry.Register(crons)

	return api.Sources{
		Agents:  agents,
		Tasks:   tasks,
		Trading: trading,
		System:  system,
		Crons:   crons,
	}, registry
}
