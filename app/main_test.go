package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lysyi3m/provenance/app/articles"
	"github.com/lysyi3m/provenance/app/cfg"
)

func TestLoadEndpointsMissingFileUsesDefaults(t *testing.T) {
	gateway, err := loadEndpoints(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	configured, err := gateway.FindAll()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(configured) != 1 || configured[0].Name != articles.DefaultSource {
		t.Errorf("Expected the default endpoint, got %+v", configured)
	}
}

func TestLoadEndpointsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yml")
	if err := os.WriteFile(path, []byte("endpoints:\n  - name: broken\n"), 0o644); err != nil {
		t.Fatalf("Failed to write endpoints file: %v", err)
	}

	if _, err := loadEndpoints(path); err == nil {
		t.Error("Expected error for endpoint without url")
	}
}

func TestOpenStoreSQLiteSeedsDemoRecords(t *testing.T) {
	appCfg := &cfg.Cfg{
		Store:        cfg.StoreSQLite,
		DBPath:       filepath.Join(t.TempDir(), "provenance.db"),
		SeedArticles: true,
	}

	store, closeStore, err := openStore(appCfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer closeStore()

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 seeded articles, got %d", count)
	}
}

func TestOpenStoreMemoryWithoutSeed(t *testing.T) {
	store, closeStore, err := openStore(&cfg.Cfg{Store: cfg.StoreMemory})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer closeStore()

	count, _ := store.Count()
	if count != 0 {
		t.Errorf("Expected empty store, got %d articles", count)
	}
}
