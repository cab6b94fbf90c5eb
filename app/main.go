package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/provenance/app/api"
	"github.com/lysyi3m/provenance/app/articles"
	"github.com/lysyi3m/provenance/app/cfg"
	"github.com/lysyi3m/provenance/app/database"
	"github.com/lysyi3m/provenance/app/endpoints"
	"github.com/lysyi3m/provenance/app/feed"
	"github.com/lysyi3m/provenance/app/fetch"
	"github.com/lysyi3m/provenance/app/logging"
	"github.com/lysyi3m/provenance/app/workflow"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		return err
	}
	if appCfg == nil {
		// Help was shown
		return nil
	}

	closeLog := logging.Setup(appCfg.Debug, appCfg.LogFile)
	defer closeLog()

	slog.Info("Starting Provenance server", "version", appCfg.Version, "store", appCfg.Store)

	store, closeStore, err := openStore(appCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	endpointGateway, err := loadEndpoints(appCfg.EndpointsFile)
	if err != nil {
		return err
	}

	fetcher := fetch.NewClient(&http.Client{}, appCfg.UserAgent, time.Duration(appCfg.FetchTimeout)*time.Second)
	worker := endpoints.NewWorker(fetcher, feed.NewParser(), feed.NewFilterer(), store)

	scheduler, err := workflow.NewWorkScheduler[endpoints.Task](
		endpoints.NewWorkFinder(endpointGateway),
		[]workflow.Worker[endpoints.Task]{worker},
		time.Duration(appCfg.SchedulerInterval)*time.Second,
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	ginMode := gin.ReleaseMode
	if appCfg.Debug {
		ginMode = gin.DebugMode
	}

	handler := api.NewHandler(store, scheduler, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, ginMode),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		slog.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}

func loadEndpoints(path string) (*endpoints.ConfigGateway, error) {
	gateway := endpoints.NewConfigGateway(path)
	if err := gateway.Run(); err != nil {
		return nil, fmt.Errorf("failed to load endpoints from %s: %w", path, err)
	}

	configured, err := gateway.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list endpoints: %w", err)
	}
	if len(configured) == 0 {
		slog.Warn("No endpoints configured, scheduler will stay idle", "path", path)
	}

	slog.Info("Endpoints loaded", "count", len(configured), "path", path)
	return gateway, nil
}

// openStore builds the single article store shared by the worker and the API.
func openStore(appCfg *cfg.Cfg) (articles.Gateway, func() error, error) {
	var seed []articles.Article
	if appCfg.SeedArticles {
		seed = articles.SeedRecords()
	}

	if appCfg.Store != cfg.StoreSQLite {
		return articles.NewMemoryGateway(seed...), func() error { return nil }, nil
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("Connected to database", "path", appCfg.DBPath)

	repo := database.NewArticleRepository(db)
	if err := repo.Seed(seed); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to seed articles: %w", err)
	}

	return repo, db.Close, nil
}
