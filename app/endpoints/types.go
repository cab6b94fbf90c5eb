package endpoints

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/provenance/app/articles"
	"github.com/lysyi3m/provenance/app/feed"
	"github.com/robfig/cron/v3"
)

const (
	// ReadyName is the readiness name of tasks for endpoints that are due.
	ReadyName = "ready"

	DefaultAccept          = "application/rss+xml"
	DefaultRefreshInterval = 300 // seconds
)

// Task asks a worker to poll one endpoint. It is a value: copy freely.
type Task struct {
	ID        string
	Name      string // readiness name
	Source    string // endpoint name from configuration
	Endpoint  string
	Accept    string
	Filters   []feed.Filter
	CreatedAt time.Time
}

func NewTask(name string, endpoint Endpoint) Task {
	return Task{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    endpoint.Name,
		Endpoint:  endpoint.URL,
		Accept:    endpoint.Accept,
		Filters:   endpoint.Filters,
		CreatedAt: time.Now().UTC(),
	}
}

func (t Task) ReadinessName() string {
	return t.Name
}

func (t Task) GetID() string {
	return t.ID
}

type Endpoint struct {
	Name            string        `yaml:"name"`
	URL             string        `yaml:"url"`
	Accept          string        `yaml:"accept"`
	Disabled        bool          `yaml:"disabled"`
	RefreshInterval int           `yaml:"refresh_interval"` // seconds
	Schedule        string        `yaml:"schedule"`         // standard 5-field cron expression
	Filters         []feed.Filter `yaml:"filters"`
}

// NextFetch returns when the endpoint is due again after a poll at from.
// A cron schedule takes precedence over the refresh interval.
func (e Endpoint) NextFetch(from time.Time) (time.Time, error) {
	if e.Schedule != "" {
		schedule, err := cron.ParseStandard(e.Schedule)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid schedule %q: %w", e.Schedule, err)
		}
		return schedule.Next(from), nil
	}

	interval := e.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return from.Add(time.Duration(interval) * time.Second), nil
}

// DefaultEndpoints is used when no endpoints file exists.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{
			Name:            articles.DefaultSource,
			URL:             "https://feed.infoq.com/",
			Accept:          DefaultAccept,
			RefreshInterval: DefaultRefreshInterval,
		},
	}
}
