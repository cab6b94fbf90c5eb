package endpoints

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/provenance/app/articles"
	"github.com/lysyi3m/provenance/app/feed"
	"github.com/lysyi3m/provenance/app/workflow"
)

type Fetcher interface {
	Fetch(ctx context.Context, url, accept string) ([]byte, error)
}

type Decoder interface {
	Run(data []byte) (*feed.Metadata, []feed.Item, error)
}

type ArticleStore interface {
	Save(source, title string, available bool) (articles.Article, error)
	ClearSource(source string) error
}

var _ workflow.Worker[Task] = (*Worker)(nil)

// Worker polls an endpoint and replaces the stored articles with its items.
type Worker struct {
	fetcher  Fetcher
	decoder  Decoder
	filterer *feed.Filterer
	store    ArticleStore
}

func NewWorker(fetcher Fetcher, decoder Decoder, filterer *feed.Filterer, store ArticleStore) *Worker {
	return &Worker{
		fetcher:  fetcher,
		decoder:  decoder,
		filterer: filterer,
		store:    store,
	}
}

func (w *Worker) Name() string {
	return ReadyName
}

// Execute fetches first and clears the endpoint's articles only after the
// fetch succeeded, so a failed fetch leaves the previous articles in place.
// Articles of other endpoints are never touched. Items are saved in
// feed order; filtered items are kept but marked unavailable.
func (w *Worker) Execute(ctx context.Context, task Task) error {
	started := time.Now()

	data, err := w.fetcher.Fetch(ctx, task.Endpoint, task.Accept)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", task.Endpoint, err)
	}

	if err := w.store.ClearSource(task.Source); err != nil {
		return fmt.Errorf("failed to clear articles of %s: %w", task.Source, err)
	}

	metadata, items, err := w.decoder.Run(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", task.Endpoint, err)
	}

	if w.filterer != nil {
		items = w.filterer.Run(items, task.Filters)
	}

	filteredCount := 0
	for _, item := range items {
		if item.IsFiltered {
			filteredCount++
		}
		if _, err := w.store.Save(task.Source, item.Title, !item.IsFiltered); err != nil {
			return fmt.Errorf("failed to save article: %w", err)
		}
	}

	feedTitle := ""
	if metadata != nil {
		feedTitle = metadata.Title
	}

	slog.Info("Task completed",
		"type", "PollEndpoint",
		"endpoint", task.Source,
		"feed", feedTitle,
		"duration", time.Since(started),
		"total", len(items),
		"filtered", filteredCount)

	return nil
}
