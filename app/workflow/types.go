package workflow

import (
	"errors"
	"time"
)

var (
	ErrInvalidInterval = errors.New("scheduler interval must be positive")
	ErrNilFinder       = errors.New("scheduler requires a work finder")
	ErrAlreadyStarted  = errors.New("scheduler already started")
)

type State string

const (
	StateCreated State = "created"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

type Outcome string

const (
	OutcomeIdle      Outcome = "idle"      // finder returned no task
	OutcomeSucceeded Outcome = "succeeded" // worker returned nil
	OutcomeFailed    Outcome = "failed"    // worker returned an error or panicked
	OutcomeMissed    Outcome = "missed"    // no worker serves the readiness name
)

type TickResult struct {
	Outcome       Outcome
	ReadinessName string
	TaskID        string
	StartedAt     time.Time
	Duration      time.Duration
	Err           error
}

// Stats is a point-in-time snapshot of scheduler counters.
type Stats struct {
	State      State
	Interval   time.Duration
	Ticks      int64
	Idle       int64
	Dispatched int64
	Succeeded  int64
	Failed     int64
	Missed     int64
	LastTickAt *time.Time
	LastError  string
}

// FailureRate is the share of dispatched tasks that failed.
func (s Stats) FailureRate() float64 {
	if s.Dispatched == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Dispatched)
}
