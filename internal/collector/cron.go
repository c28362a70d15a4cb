// Cron listing collector: parses the scheduler CLI's text listing, and
// substitutes a fixed example set when the CLI cannot be run.
package collector

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/models"
)

// FallbackNote is shown to users whenever the fallback set is served.
const FallbackNote = "Using fallback data - openclaw CLI not available"

// DefaultCronTimeout bounds a single CLI invocation.
const DefaultCronTimeout = 10 * time.Second

const (
	glyphActive   = "✓"
	glyphDisabled = "✗"
)

var whitespace = regexp.MustCompile(`\s+`)

// FallbackJobs returns the built-in example jobs served in degraded mode.
func FallbackJobs() []models.CronJob {
	return []models.CronJob{
		{ID: "xyro-hourly", Schedule: "* * * * *", Command: "openclaw agent xyro --mode heartbeat", Status: models.CronActive},
		{ID: "trading-live", Schedule: "*/15 9-16 * * 1-5", Command: "python3 trading-bot/src/main.py --mode live", Status: models.CronActive},
		{ID: "daily-report", Schedule: "0 16 * * 1-5", Command: `echo "Daily trading report"`, Status: models.CronActive},
	}
}

// CronCollector runs the cron CLI and parses its output.
type CronCollector struct {
	command []string
	timeout time.Duration
	runner  Runner
	logger  *zap.Logger
}

// NewCronCollector creates a collector that runs command (name followed by
// arguments) through runner, bounded by timeout.
func NewCronCollector(command []string, timeout time.Duration, runner Runner, logger *zap.Logger) *CronCollector {
	if timeout <= 0 {
		timeout = DefaultCronTimeout
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronCollector{
		command: command,
		timeout: timeout,
		runner:  runner,
		logger:  logger,
	}
}

// Name returns the collector identifier.
func (c *CronCollector) Name() string { return "crons" }

// IsAvailable returns true when a command is configured.
func (c *CronCollector) IsAvailable() bool { return len(c.command) > 0 }

// Collect returns the cron listing.
func (c *CronCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.Listing(ctx)
}

// Listing runs the CLI and parses its output. It never fails: when the
// CLI cannot be run, times out or exits non-zero, the fallback set is
// returned with a fallback origin carrying the reason.
func (c *CronCollector) Listing(ctx context.Context) (*models.CronListing, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		out string
		err error
	)
	if len(c.command) == 0 {
		err = errNoCronCommand
	} else {
		out, err = c.runner.Run(runCtx, c.command[0], c.command[1:]...)
	}
	if err != nil {
		c.logger.Warn("Cron CLI unavailable, serving fallback jobs",
			zap.Strings("command", c.command),
			zap.Error(err))
		return &models.CronListing{
			Jobs:   FallbackJobs(),
			Origin: models.Origin{Mode: models.OriginFallback, Reason: err.Error()},
		}, nil
	}

	return &models.CronListing{
		Jobs:   ParseCronListing(out),
		Origin: models.Origin{Mode: models.OriginLive},
	}, nil
}

// ParseCronListing parses one job per line: field 0 is the id, fields 1-4
// the schedule, the rest the command. Lines without an id, including lines
// that start with whitespace, are dropped.
func ParseCronListing(output string) []models.CronJob {
	jobs := make([]models.CronJob, 0)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := whitespace.Split(strings.TrimRight(line, " \t\r"), -1)
		if parts[0] == "" {
			continue
		}
		job := models.CronJob{
			ID:     parts[0],
			Status: cronStatus(line),
		}
		if len(parts) > 1 {
			job.Schedule = strings.Join(parts[1:min(len(parts), 5)], " ")
		}
		if len(parts) > 5 {
			job.Command = strings.Join(parts[5:], " ")
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func cronStatus(line string) string {
	switch {
	case strings.Contains(line, glyphActive):
		return models.CronActive
	case strings.Contains(line, glyphDisabled):
		return models.CronDisabled
	default:
		return models.CronUnknown
	}
}
