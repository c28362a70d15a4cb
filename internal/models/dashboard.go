// Package models defines the view-model records served by the dashboard API.
// Every record is rebuilt from its external source on each request; nothing
// here is persisted.
package models

// Agent statuses. StatusOffline is part of the contract but no heartbeat
// age currently maps to it.
const (
	StatusActive  = "active"
	StatusBusy    = "busy"
	StatusIdle    = "idle"
	StatusOffline = "offline"
)

// Task statuses as written by the external task list.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in-progress"
	TaskBlocked    = "blocked"
	TaskDone       = "done"
)

// Cron job statuses.
const (
	CronActive   = "active"
	CronDisabled = "disabled"
	CronUnknown  = "unknown"
)

// AgentProfile is the static description of a known agent.
type AgentProfile struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role" yaml:"role"`
	Specialty string `json:"specialty" yaml:"specialty"`
	Emoji     string `json:"emoji" yaml:"emoji"`
}

// AgentRecord is one agent directory with its derived liveness.
type AgentRecord struct {
	AgentProfile
	Status     string `json:"status"`
	LastActive string `json:"lastActive"`

	// TasksCompleted comes from an injected counter. The default counter
	// is a random placeholder and must not be treated as real data.
	TasksCompleted int `json:"tasksCompleted"`
}

// TaskRecord is a single entry of the external task list.
type TaskRecord struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	Priority string  `json:"priority"`
	Agent    string  `json:"agent"`
	DueAt    *string `json:"dueAt,omitempty"`
	Subtasks *int    `json:"subtasks,omitempty"`
}

// Position is one open holding in the trading ledger.
type Position struct {
	Ticker   string  `json:"ticker"`
	Shares   float64 `json:"shares"`
	AvgPrice float64 `json:"avg_price"`
	Value    float64 `json:"value"`
}

// PnL is profit and loss against the initial balance.
type PnL struct {
	Value      float64 `json:"value"`
	Percent    float64 `json:"percent"`
	IsPositive bool    `json:"isPositive"`
}

// TradingSnapshot is the valuation of the trading-bot ledger.
type TradingSnapshot struct {
	Cash                float64    `json:"cash"`
	Positions           []Position `json:"positions"`
	TotalPositionValue  float64    `json:"totalPositionValue"`
	TotalPortfolioValue float64    `json:"totalPortfolioValue"`
	InitialBalance      float64    `json:"initialBalance"`
	PnL                 PnL        `json:"pnl"`
	TradeCount          int        `json:"tradeCount"`
	UpdatedAt           string     `json:"updatedAt,omitempty"`
}

// CPUInfo holds load averages and a load-based usage approximation.
type CPUInfo struct {
	Load1        float64 `json:"load1"`
	Load5        float64 `json:"load5"`
	Load15       float64 `json:"load15"`
	Cores        int     `json:"cores"`
	UsagePercent int     `json:"usagePercent"`
}

// MemoryInfo holds memory usage in Unit (always GB).
type MemoryInfo struct {
	Used    float64 `json:"used"`
	Total   float64 `json:"total"`
	Percent int     `json:"percent"`
	Unit    string  `json:"unit"`
}

// UptimeInfo holds seconds since boot and a display string.
type UptimeInfo struct {
	Seconds   float64 `json:"seconds"`
	Formatted string  `json:"formatted"`
}

// DiskInfo represents usage for a single local mount.
type DiskInfo struct {
	Mount   string  `json:"mount"`
	Fs      string  `json:"fs,omitempty"`
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

// SystemMetrics is an instantaneous view of the host.
type SystemMetrics struct {
	CPU      CPUInfo    `json:"cpu"`
	Memory   MemoryInfo `json:"memory"`
	Uptime   UptimeInfo `json:"uptime"`
	Hostname string     `json:"hostname"`
	IP       string     `json:"ip"`
	Disks    []DiskInfo `json:"disks"`
}

// CronJob is one line of the cron CLI listing.
type CronJob struct {
	ID       string `json:"id"`
	Schedule string `json:"schedule"`
	Command  string `json:"command"`
	Status   string `json:"status"`
}

// Origin modes for a cron listing.
const (
	OriginLive     = "live"
	OriginFallback = "fallback"
)

// Origin tells consumers whether a listing came from the live source or
// from the built-in fallback set, and why.
type Origin struct {
	Mode   string `json:"mode"`
	Reason string `json:"reason,omitempty"`
}

// IsFallback reports whether the listing is degraded.
func (o Origin) IsFallback() bool { return o.Mode == OriginFallback }

// CronListing is the result of the cron reader.
type CronListing struct {
	Jobs   []CronJob `json:"jobs"`
	Origin Origin    `json:"origin"`
}
