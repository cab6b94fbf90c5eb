package endpoints

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEndpointsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "endpoints.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigGatewayLoadValidConfig(t *testing.T) {
	path := writeEndpointsFile(t, `
endpoints:
  - name: infoq
    url: "https://feed.infoq.com/"
    refresh_interval: 600
    filters:
      - field: title
        excludes:
          - "sponsored"
  - name: golang
    url: "https://go.dev/blog/feed.atom"
    accept: "application/atom+xml"
    schedule: "0 * * * *"
`)

	gateway := NewConfigGateway(path)
	if err := gateway.Run(); err != nil {
		t.Fatal(err)
	}

	endpoints, err := gateway.FindAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("Expected 2 endpoints, got %d", len(endpoints))
	}

	if endpoints[0].Accept != DefaultAccept {
		t.Errorf("Expected default accept '%s', got '%s'", DefaultAccept, endpoints[0].Accept)
	}
	if endpoints[0].RefreshInterval != 600 {
		t.Errorf("Expected refresh interval 600, got %d", endpoints[0].RefreshInterval)
	}
	if len(endpoints[0].Filters) != 1 {
		t.Errorf("Expected 1 filter, got %d", len(endpoints[0].Filters))
	}
	if endpoints[1].Accept != "application/atom+xml" {
		t.Errorf("Expected accept 'application/atom+xml', got '%s'", endpoints[1].Accept)
	}
	if endpoints[1].Schedule != "0 * * * *" {
		t.Errorf("Expected schedule '0 * * * *', got '%s'", endpoints[1].Schedule)
	}
	if endpoints[1].RefreshInterval != DefaultRefreshInterval {
		t.Errorf("Expected default refresh interval, got %d", endpoints[1].RefreshInterval)
	}
}

func TestConfigGatewayMissingFileUsesDefaults(t *testing.T) {
	gateway := NewConfigGateway(filepath.Join(t.TempDir(), "missing.yml"))
	if err := gateway.Run(); err != nil {
		t.Fatal(err)
	}

	endpoints, _ := gateway.FindAll()
	if len(endpoints) != 1 {
		t.Fatalf("Expected 1 default endpoint, got %d", len(endpoints))
	}
	if endpoints[0].URL != DefaultEndpoints()[0].URL {
		t.Errorf("Expected default endpoint URL, got '%s'", endpoints[0].URL)
	}
}

func TestConfigGatewayNameDefaultsToURL(t *testing.T) {
	path := writeEndpointsFile(t, `
endpoints:
  - url: "https://example.com/rss"
`)

	gateway := NewConfigGateway(path)
	if err := gateway.Run(); err != nil {
		t.Fatal(err)
	}

	endpoints, _ := gateway.FindAll()
	if endpoints[0].Name != "https://example.com/rss" {
		t.Errorf("Expected name to default to URL, got '%s'", endpoints[0].Name)
	}
}

func TestConfigGatewayValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing url", "endpoints:\n  - name: a\n"},
		{"negative interval", "endpoints:\n  - url: http://a\n    refresh_interval: -1\n"},
		{"bad schedule", "endpoints:\n  - url: http://a\n    schedule: \"sometimes\"\n"},
		{"bad filter field", "endpoints:\n  - url: http://a\n    filters:\n      - field: author\n        includes: [x]\n"},
		{"duplicate names", "endpoints:\n  - name: a\n    url: http://a\n  - name: a\n    url: http://b\n"},
		{"invalid yaml", "endpoints: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := NewConfigGateway(writeEndpointsFile(t, tt.content))
			if err := gateway.Run(); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestConfigGatewayFindAllReturnsCopy(t *testing.T) {
	gateway := NewConfigGateway(filepath.Join(t.TempDir(), "missing.yml"))
	if err := gateway.Run(); err != nil {
		t.Fatal(err)
	}

	endpoints, _ := gateway.FindAll()
	endpoints[0].URL = "http://changed"

	again, _ := gateway.FindAll()
	if again[0].URL == "http://changed" {
		t.Error("Expected FindAll to return a copy")
	}
}
