package endpoints

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/provenance/app/workflow"
)

var _ workflow.WorkFinder[Task] = (*WorkFinder)(nil)

// WorkFinder hands out one due endpoint per call. Endpoints never polled
// before are due immediately; afterwards each endpoint is due again according
// to its schedule. The scan resumes after the endpoint returned last so a
// single endpoint cannot starve the others.
type WorkFinder struct {
	gateway Gateway
	now     func() time.Time

	mu      sync.Mutex
	nextDue map[string]time.Time
	cursor  int
}

func NewWorkFinder(gateway Gateway) *WorkFinder {
	return &WorkFinder{
		gateway: gateway,
		now:     time.Now,
		nextDue: make(map[string]time.Time),
	}
}

func (f *WorkFinder) Find(ctx context.Context) (Task, bool) {
	select {
	case <-ctx.Done():
		return Task{}, false
	default:
	}

	endpoints, err := f.gateway.FindAll()
	if err != nil {
		slog.Error("Failed to list endpoints, no work this tick", "error", err)
		return Task{}, false
	}

	if len(endpoints) == 0 {
		slog.Debug("No endpoints configured")
		return Task{}, false
	}

	now := f.now()

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i < len(endpoints); i++ {
		idx := (f.cursor + i) % len(endpoints)
		endpoint := endpoints[idx]

		if endpoint.Disabled {
			continue
		}

		if due, seen := f.nextDue[endpoint.Name]; seen && due.After(now) {
			continue
		}

		next, err := endpoint.NextFetch(now)
		if err != nil {
			slog.Warn("Skipping endpoint with invalid schedule", "endpoint", endpoint.Name, "error", err)
			continue
		}

		f.nextDue[endpoint.Name] = next
		f.cursor = idx + 1

		slog.Debug("Endpoint due for polling", "endpoint", endpoint.Name, "next_fetch_at", next)
		return NewTask(ReadyName, endpoint), true
	}

	return Task{}, false
}

// NextDue reports when the named endpoint becomes due again, if it was polled.
func (f *WorkFinder) NextDue(name string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	due, ok := f.nextDue[name]
	return due, ok
}
