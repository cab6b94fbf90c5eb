package workflow

import "context"

// Task is one unit of work. ReadinessName selects the worker that handles it.
type Task interface {
	ReadinessName() string
}

// Worker performs the side effect for tasks whose readiness name equals Name.
// Example usage:
//
//	type feedWorker struct{}
//
//	func (w *feedWorker) Name() string { return "ready" }
//	func (w *feedWorker) Execute(ctx context.Context, task endpoints.Task) error { ... }
type Worker[T Task] interface {
	Name() string
	Execute(ctx context.Context, task T) error
}

// WorkFinder decides on every tick whether new work exists.
// Find returns at most one task and reports false when nothing is due.
// Implementations must not block indefinitely and must not surface
// internal failures; a failed lookup is reported as "no task".
type WorkFinder[T Task] interface {
	Find(ctx context.Context) (T, bool)
}

// Observer receives the outcome of every completed tick.
type Observer interface {
	TickCompleted(result TickResult)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(result TickResult)

func (f ObserverFunc) TickCompleted(result TickResult) {
	f(result)
}

type identified interface {
	GetID() string
}
