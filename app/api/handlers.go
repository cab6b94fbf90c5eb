package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/provenance/app/articles"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func NewHandler(store articles.Gateway, scheduler StatsProvider, version string) *Handler {
	return &Handler{
		store:     store,
		scheduler: scheduler,
		version:   version,
	}
}

func (h *Handler) GetArticles(c *gin.Context) {
	records, err := h.store.FindAll()
	if err != nil {
		slog.Error("Database error", "operation", "find_all", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	infos := toInfos(records)

	if c.GetString(formatKey) == mimeHTML {
		c.HTML(http.StatusOK, "articles", infos)
		return
	}

	c.JSON(http.StatusOK, infos)
}

func (h *Handler) GetAvailable(c *gin.Context) {
	records, err := h.store.FindAvailable()
	if err != nil {
		slog.Error("Database error", "operation", "find_available", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toInfos(records))
}

func (h *Handler) GetHealth(c *gin.Context) {
	stats := h.scheduler.Stats()

	health := Health{
		Status:    healthStatus(stats.FailureRate()),
		Timestamp: time.Now().In(time.Local).Format(time.RFC3339),
		Version:   h.version,
		Scheduler: SchedulerHealth{
			State:       string(stats.State),
			Interval:    stats.Interval.String(),
			Ticks:       stats.Ticks,
			Idle:        stats.Idle,
			Dispatched:  stats.Dispatched,
			Succeeded:   stats.Succeeded,
			Failed:      stats.Failed,
			Missed:      stats.Missed,
			FailureRate: stats.FailureRate(),
			LastTickAt:  stats.LastTickAt,
			LastError:   stats.LastError,
		},
	}

	if count, err := h.store.Count(); err == nil {
		health.Articles = &count
	} else {
		slog.Error("Database error", "operation", "count", "error", err)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "Provenance",
		"version":     h.version,
		"description": "Polls configured feeds and republishes their article titles",
		"endpoints": map[string]string{
			"articles":  "/articles (application/json, text/html)",
			"available": "/available (application/json)",
			"health":    "/health",
		},
	})
}

func healthStatus(failureRate float64) string {
	switch {
	case failureRate > 0.5:
		return statusUnhealthy
	case failureRate > 0.1:
		return statusDegraded
	default:
		return statusHealthy
	}
}

func toInfos(records []articles.Article) []articles.Info {
	infos := make([]articles.Info, 0, len(records))
	for _, record := range records {
		infos = append(infos, record.Info())
	}
	return infos
}
