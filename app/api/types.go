package api

import (
	"time"

	"github.com/lysyi3m/provenance/app/articles"
	"github.com/lysyi3m/provenance/app/workflow"
)

type StatsProvider interface {
	Stats() workflow.Stats
}

type Handler struct {
	store     articles.Gateway
	scheduler StatsProvider
	version   string
}

type SchedulerHealth struct {
	State       string     `json:"state"`
	Interval    string     `json:"interval"`
	Ticks       int64      `json:"ticks"`
	Idle        int64      `json:"idle"`
	Dispatched  int64      `json:"dispatched"`
	Succeeded   int64      `json:"succeeded"`
	Failed      int64      `json:"failed"`
	Missed      int64      `json:"missed"`
	FailureRate float64    `json:"failure_rate"`
	LastTickAt  *time.Time `json:"last_tick_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

type Health struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Version   string          `json:"version"`
	Articles  *int            `json:"articles,omitempty"`
	Scheduler SchedulerHealth `json:"scheduler"`
}
