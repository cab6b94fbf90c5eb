package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Option func(*WorkSchedulerOptions)

type WorkSchedulerOptions struct {
	Observer Observer
}

// WithObserver registers a hook called on the loop goroutine after every
// tick. The hook must not call Stop synchronously: Stop waits for the loop,
// which is waiting for the hook. Use `go scheduler.Stop()` instead.
func WithObserver(observer Observer) Option {
	return func(o *WorkSchedulerOptions) {
		o.Observer = observer
	}
}

// WorkScheduler runs a single periodic loop: find a task, hand it to the
// worker registered under the task's readiness name, wait, repeat.
// Ticks of one scheduler never overlap. Worker failures and dispatch misses
// are logged and counted; they never stop the loop.
type WorkScheduler[T Task] struct {
	finder   WorkFinder[T]
	workers  []Worker[T]
	byName   map[string]Worker[T]
	interval time.Duration
	observer Observer

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	statsMu sync.RWMutex
	stats   Stats
}

func NewWorkScheduler[T Task](finder WorkFinder[T], workers []Worker[T], interval time.Duration, opts ...Option) (*WorkScheduler[T], error) {
	if finder == nil {
		return nil, ErrNilFinder
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}

	var options WorkSchedulerOptions
	for _, opt := range opts {
		opt(&options)
	}

	byName := make(map[string]Worker[T], len(workers))
	registered := make([]Worker[T], 0, len(workers))
	for _, worker := range workers {
		if worker == nil {
			continue
		}
		name := worker.Name()
		if _, exists := byName[name]; exists {
			slog.Warn("Duplicate worker name, keeping first registration", "worker", name)
			continue
		}
		byName[name] = worker
		registered = append(registered, worker)
	}

	return &WorkScheduler[T]{
		finder:   finder,
		workers:  registered,
		byName:   byName,
		interval: interval,
		observer: options.Observer,
		state:    StateCreated,
		stats: Stats{
			State:    StateCreated,
			Interval: interval,
		},
	}, nil
}

// Start launches the loop in its own goroutine. The first tick runs right away.
func (s *WorkScheduler[T]) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCreated {
		return fmt.Errorf("%w (state: %s)", ErrAlreadyStarted, s.state)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s.state = StateRunning
	s.cancel = cancel
	s.done = make(chan struct{})
	s.setState(StateRunning)

	slog.Info("Starting work scheduler", "workers", len(s.workers), "interval", s.interval.String())

	go s.run(ctx, s.done)

	return nil
}

// Stop cancels the loop context, which a waiting Find observes, and waits for
// an in-flight tick to finish. Execute runs on a context Stop does not cancel,
// so a hung worker also blocks Stop.
//
// Workers and observers run on the loop goroutine; calling Stop from them
// deadlocks. They may call it from a new goroutine.
func (s *WorkScheduler[T]) Stop() {
	s.mu.Lock()
	switch s.state {
	case StateCreated:
		s.state = StateStopped
		s.setState(StateStopped)
		s.mu.Unlock()
		return
	case StateStopped:
		s.mu.Unlock()
		return
	}

	s.state = StateStopped
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	s.setState(StateStopped)

	slog.Info("Work scheduler stopped")
}

func (s *WorkScheduler[T]) Stats() Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()

	stats := s.stats
	if stats.LastTickAt != nil {
		lastTickAt := *stats.LastTickAt
		stats.LastTickAt = &lastTickAt
	}
	return stats
}

func (s *WorkScheduler[T]) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// The timer and cancellation may fire together; cancellation wins.
		if ctx.Err() != nil {
			return
		}

		s.record(s.tick(ctx))
		timer.Reset(s.interval)
	}
}

func (s *WorkScheduler[T]) tick(ctx context.Context) TickResult {
	result := TickResult{StartedAt: time.Now()}

	task, ok := s.find(ctx)
	if !ok {
		result.Outcome = OutcomeIdle
		result.Duration = time.Since(result.StartedAt)
		return result
	}

	result.ReadinessName = task.ReadinessName()
	if id, ok := any(task).(identified); ok {
		result.TaskID = id.GetID()
	}

	worker, ok := s.byName[result.ReadinessName]
	if !ok {
		slog.Warn("No worker registered for task, dropping", "readiness", result.ReadinessName, "id", result.TaskID)
		result.Outcome = OutcomeMissed
		result.Duration = time.Since(result.StartedAt)
		return result
	}

	// An in-flight Execute is allowed to finish after Stop.
	err := s.execute(context.WithoutCancel(ctx), worker, task)
	result.Duration = time.Since(result.StartedAt)

	if err != nil {
		slog.Error("Worker task execution failed", "worker", worker.Name(), "id", result.TaskID, "duration", result.Duration, "error", err)
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	slog.Debug("Worker task execution succeeded", "worker", worker.Name(), "id", result.TaskID, "duration", result.Duration)
	result.Outcome = OutcomeSucceeded
	return result
}

func (s *WorkScheduler[T]) find(ctx context.Context) (task T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Work finder panicked, treating as no task", "panic", r)
			var zero T
			task, ok = zero, false
		}
	}()

	return s.finder.Find(ctx)
}

func (s *WorkScheduler[T]) execute(ctx context.Context, worker Worker[T], task T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %s panicked: %v", worker.Name(), r)
		}
	}()

	return worker.Execute(ctx, task)
}

func (s *WorkScheduler[T]) record(result TickResult) {
	s.statsMu.Lock()
	startedAt := result.StartedAt
	s.stats.Ticks++
	s.stats.LastTickAt = &startedAt

	switch result.Outcome {
	case OutcomeIdle:
		s.stats.Idle++
	case OutcomeMissed:
		s.stats.Missed++
	case OutcomeSucceeded:
		s.stats.Dispatched++
		s.stats.Succeeded++
	case OutcomeFailed:
		s.stats.Dispatched++
		s.stats.Failed++
		s.stats.LastError = result.Err.Error()
	}
	s.statsMu.Unlock()

	if s.observer != nil {
		s.observer.TickCompleted(result)
	}
}

func (s *WorkScheduler[T]) setState(state State) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats.State = state
}
