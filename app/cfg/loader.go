package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8881" description:"HTTP server port"`
	EndpointsFile     string `long:"endpoints-file" env:"ENDPOINTS_FILE" default:"./endpoints.yml" description:"YAML file listing the feed endpoints to poll"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds"`
	FetchTimeout      int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Timeout for fetching a feed in seconds"`
	UserAgent         string `long:"user-agent" env:"USER_AGENT" default:"Provenance/1.0" description:"User agent string for HTTP requests"`
	SeedArticles      bool   `long:"seed-articles" env:"SEED_ARTICLES" description:"Start with the demo articles before the first poll"`

	// Storage configuration
	Store  string `long:"store" env:"STORE" default:"memory" choice:"memory" choice:"sqlite" description:"Article store backend"`
	DBPath string `long:"db-path" env:"DB_PATH" default:"./provenance.db" description:"SQLite database file (store=sqlite)"`

	// Application metadata
	LogFile  string `long:"log-file" env:"LOG_FILE" description:"Also write logs to this file, rotated"`
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads an optional .env file, then flags and environment variables.
// It returns nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		EndpointsFile:     raw.EndpointsFile,
		SchedulerInterval: raw.SchedulerInterval,
		FetchTimeout:      raw.FetchTimeout,
		UserAgent:         raw.UserAgent,
		SeedArticles:      raw.SeedArticles,
		Store:             raw.Store,
		DBPath:            raw.DBPath,
		LogFile:           raw.LogFile,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	positiveFields := map[string]int{
		"scheduler interval": cfg.SchedulerInterval,
		"fetch timeout":      cfg.FetchTimeout,
	}

	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	switch cfg.Store {
	case StoreMemory:
	case StoreSQLite:
		if cfg.DBPath == "" {
			return fmt.Errorf("db path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown store: %s", cfg.Store)
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
