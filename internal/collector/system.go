// System metrics collector: memory, load, uptime and core count parsed from
// /proc, host identity and disk usage from gopsutil. Each input degrades to
// a zero value on its own; the collector as a whole does not fail.
package collector

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/models"
)

// DefaultProcDir is where the kernel exposes its pseudo-files.
const DefaultProcDir = "/proc"

// SystemCollector reads instantaneous host metrics.
type SystemCollector struct {
	procDir  string
	hostname string
	ip       string
	logger   *zap.Logger

	identity func(ctx context.Context) (hostname, ip string)
	disks    func(ctx context.Context) []models.DiskInfo
}

// NewSystemCollector creates a system collector reading pseudo-files from
// procDir. Non-empty hostname and ip replace host introspection.
func NewSystemCollector(procDir, hostname, ip string, logger *zap.Logger) *SystemCollector {
	if procDir == "" {
		procDir = DefaultProcDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &SystemCollector{
		procDir:  procDir,
		hostname: hostname,
		ip:       ip,
		logger:   logger,
		identity: hostIdentity,
	}
	c.disks = func(ctx context.Context) []models.DiskInfo {
		return localDisks(ctx, c.logger)
	}
	return c
}

// Name returns the collector identifier.
func (c *SystemCollector) Name() string { return "system" }

// IsAvailable returns true. Missing pseudo-files degrade to zero values.
func (c *SystemCollector) IsAvailable() bool { return true }

// Collect returns the system metrics.
func (c *SystemCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.Metrics(ctx)
}

// Metrics assembles a SystemMetrics snapshot.
func (c *SystemCollector) Metrics(ctx context.Context) (*models.SystemMetrics, error) {
	load1, load5, load15 := ParseLoadavg(c.readProcFile("loadavg"))
	cores := CountProcessors(c.readProcFile("cpuinfo"))

	hostname, ip := c.hostname, c.ip
	if hostname == "" || ip == "" {
		h, i := c.identity(ctx)
		if hostname == "" {
			hostname = h
		}
		if ip == "" {
			ip = i
		}
	}

	disks := c.disks(ctx)
	if disks == nil {
		disks = []models.DiskInfo{}
	}

	return &models.SystemMetrics{
		CPU: models.CPUInfo{
			Load1:        load1,
			Load5:        load5,
			Load15:       load15,
			Cores:        cores,
			UsagePercent: LoadPercent(load1, cores),
		},
		Memory:   ParseMeminfo(c.readProcFile("meminfo")),
		Uptime:   ParseUptime(c.readProcFile("uptime")),
		Hostname: hostname,
		IP:       ip,
		Disks:    disks,
	}, nil
}

// readProcFile returns the content of a pseudo-file, or "" if it cannot be read.
func (c *SystemCollector) readProcFile(name string) string {
	data, err := os.ReadFile(filepath.Join(c.procDir, name))
	if err != nil {
		c.logger.Debug("Proc file unavailable",
			zap.String("file", name),
			zap.Error(err))
		return ""
	}
	return string(data)
}

// ParseMeminfo extracts used/total memory in GB (one decimal) and the used
// percentage from /proc/meminfo content. MemAvailable is preferred over
// MemFree when both are present.
func ParseMeminfo(content string) models.MemoryInfo {
	var total, available, free int64
	var haveAvailable bool
	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			total = parseKB(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			available = parseKB(line)
			haveAvailable = true
		case strings.HasPrefix(line, "MemFree:"):
			free = parseKB(line)
		}
	}
	if !haveAvailable {
		available = free
	}

	used := total - available
	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(used) / float64(total) * 100))
	}
	return models.MemoryInfo{
		Used:    kbToGB(used),
		Total:   kbToGB(total),
		Percent: percent,
		Unit:    "GB",
	}
}

// parseKB reads the numeric value of a "Key:   1234 kB" line.
func parseKB(line string) int64 {
	_, rest, _ := strings.Cut(line, ":")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func kbToGB(kb int64) float64 {
	return roundTenth(float64(kb) / 1024 / 1024)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// ParseLoadavg returns the 1, 5 and 15 minute load averages. Unparseable
// fields are 0.
func ParseLoadavg(content string) (load1, load5, load15 float64) {
	fields := strings.Fields(content)
	get := func(i int) float64 {
		if i >= len(fields) {
			return 0
		}
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return 0
		}
		return v
	}
	return get(0), get(1), get(2)
}

// ParseUptime returns seconds since boot and a "N.N days" label.
func ParseUptime(content string) models.UptimeInfo {
	var seconds float64
	if fields := strings.Fields(content); len(fields) > 0 {
		if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
			seconds = v
		}
	}
	return models.UptimeInfo{
		Seconds:   seconds,
		Formatted: fmt.Sprintf("%.1f days", seconds/86400),
	}
}

// CountProcessors counts "processor" lines in /proc/cpuinfo content. The
// result is at least 1 so it can be used as a divisor.
func CountProcessors(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "processor") {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// LoadPercent approximates CPU usage as the 1-minute load per core. This
// is not true utilization; a saturated host can exceed 100.
func LoadPercent(load1 float64, cores int) int {
	if cores < 1 {
		cores = 1
	}
	return int(math.Round(load1 / float64(cores) * 100))
}
