package models

// Envelope is the uniform wrapper of every aggregation response.
// Exactly one of Data and Error is meaningful, selected by Success.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Counts  interface{} `json:"counts,omitempty"`
	Error   string      `json:"error,omitempty"`
	Note    string      `json:"note,omitempty"`
	Origin  *Origin     `json:"origin,omitempty"`
}

// AgentCounts tallies agents by status.
type AgentCounts struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Busy    int `json:"busy"`
	Idle    int `json:"idle"`
	Offline int `json:"offline"`
}

// TaskCounts tallies tasks by status.
type TaskCounts struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in-progress"`
	Blocked    int `json:"blocked"`
	Done       int `json:"done"`
}

// CronCounts tallies cron jobs by status.
type CronCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Disabled int `json:"disabled"`
}

// CountAgents computes the status tallies for a set of agents.
func CountAgents(agents []AgentRecord) AgentCounts {
	c := AgentCounts{Total: len(agents)}
	for _, a := range agents {
		switch a.Status {
		case StatusActive:
			c.Active++
		case StatusBusy:
			c.Busy++
		case StatusIdle:
			c.Idle++
		case StatusOffline:
			c.Offline++
		}
	}
	return c
}

// CountTasks computes the status tallies for a set of tasks. Tasks with a
// status outside the known set only count toward Total.
func CountTasks(tasks []TaskRecord) TaskCounts {
	c := TaskCounts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case TaskTodo:
			c.Todo++
		case TaskInProgress:
			c.InProgress++
		case TaskBlocked:
			c.Blocked++
		case TaskDone:
			c.Done++
		}
	}
	return c
}

// CountCrons computes the status tallies for a set of cron jobs. Jobs with
// an unknown status only count toward Total.
func CountCrons(jobs []CronJob) CronCounts {
	c := CronCounts{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case CronActive:
			c.Active++
		case CronDisabled:
			c.Disabled++
		}
	}
	return c
}
