package endpoints

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lysyi3m/provenance/app/feed"
	"gopkg.in/yaml.v3"
)

// Gateway lists the endpoints the finder may schedule.
type Gateway interface {
	FindAll() ([]Endpoint, error)
}

var _ Gateway = (*ConfigGateway)(nil)

type configFile struct {
	Endpoints []Endpoint `yaml:"endpoints"`
}

// ConfigGateway serves endpoints read from a YAML file.
//
//	endpoints:
//	  - name: infoq
//	    url: https://feed.infoq.com/
//	    accept: application/rss+xml
//	    refresh_interval: 300
//	  - name: golang
//	    url: https://go.dev/blog/feed.atom
//	    schedule: "0 * * * *"
type ConfigGateway struct {
	path      string
	endpoints []Endpoint
	mu        sync.RWMutex
}

func NewConfigGateway(path string) *ConfigGateway {
	return &ConfigGateway{path: path}
}

// Run loads the file. A missing file falls back to DefaultEndpoints.
func (g *ConfigGateway) Run() error {
	if _, err := os.Stat(g.path); os.IsNotExist(err) {
		slog.Info("Endpoints file not found, using defaults", "path", g.path)
		return g.set(DefaultEndpoints())
	}

	data, err := os.ReadFile(g.path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := g.set(file.Endpoints); err != nil {
		return fmt.Errorf("invalid config %s: %w", g.path, err)
	}

	slog.Debug("Endpoints loaded", "path", g.path, "count", len(file.Endpoints))
	return nil
}

func (g *ConfigGateway) FindAll() ([]Endpoint, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	endpoints := make([]Endpoint, len(g.endpoints))
	copy(endpoints, g.endpoints)
	return endpoints, nil
}

func (g *ConfigGateway) set(endpoints []Endpoint) error {
	seen := make(map[string]bool, len(endpoints))
	for i := range endpoints {
		applyDefaults(&endpoints[i])
		if err := validateEndpoint(endpoints[i]); err != nil {
			return fmt.Errorf("endpoint at index %d: %w", i, err)
		}
		if seen[endpoints[i].Name] {
			return fmt.Errorf("duplicate endpoint name: %s", endpoints[i].Name)
		}
		seen[endpoints[i].Name] = true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.endpoints = endpoints
	return nil
}

func applyDefaults(endpoint *Endpoint) {
	if endpoint.Accept == "" {
		endpoint.Accept = DefaultAccept
	}
	if endpoint.RefreshInterval == 0 {
		endpoint.RefreshInterval = DefaultRefreshInterval
	}
	if endpoint.Name == "" {
		endpoint.Name = endpoint.URL
	}
}

func validateEndpoint(endpoint Endpoint) error {
	if endpoint.URL == "" {
		return fmt.Errorf("endpoint URL is required")
	}
	if endpoint.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be non-negative")
	}
	if endpoint.Schedule != "" {
		if _, err := endpoint.NextFetch(time.Now()); err != nil {
			return err
		}
	}
	return feed.ValidateFilters(endpoint.Filters)
}
