// Package cron runs named maintenance jobs on a fixed interval and on demand.
package cron

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrUnknownJob is returned by Run for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// ErrBusy is returned by Run while the same job is already executing.
var ErrBusy = errors.New("job is already running")

// Outcome is the result of the latest run of a job.
type Outcome string

const (
	OutcomeNever   Outcome = "never"
	OutcomeRunning Outcome = "running"
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
)

// Job is a unit of periodic work.
type Job struct {
	Name        string
	Description string
	Interval    time.Duration
	Fn          func(ctx context.Context) error
}

// Status describes a registered job.
type Status struct {
	Name        string
	Description string
	Interval    time.Duration
	Outcome     Outcome
	LastError   string
	LastRunAt   time.Time
	NextRunAt   time.Time
}

type entry struct {
	job Job

	mu      sync.Mutex
	running bool
	status  Status
}

// Scheduler owns a set of jobs keyed by name.
type Scheduler struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{entries: make(map[string]*entry), now: time.Now}
}

// Register adds job, replacing any job with the same name. Call before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[job.Name] = &entry{
		job: job,
		status: Status{
			Name:        job.Name,
			Description: job.Description,
			Interval:    job.Interval,
			Outcome:     OutcomeNever,
			NextRunAt:   s.now().Add(job.Interval),
		},
	}
}

// Start runs every job once per interval until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.job.Interval <= 0 {
			continue
		}
		go s.loop(ctx, e)
	}
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	ticker := time.NewTicker(e.job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.run(ctx, e)
		}
	}
}

// Run executes the named job now and returns its error.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(ctx, e)
}

func (s *Scheduler) run(ctx context.Context, e *entry) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrBusy
	}
	e.running = true
	e.status.Outcome = OutcomeRunning
	e.mu.Unlock()

	started := s.now()
	err := e.job.Fn(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.status.LastRunAt = started
	e.status.NextRunAt = s.now().Add(e.job.Interval)
	e.status.LastError = ""
	e.status.Outcome = OutcomeOK
	if err != nil {
		e.status.Outcome = OutcomeFailed
		e.status.LastError = err.Error()
	}
	return err
}

// List reports every job ordered by name.
func (s *Scheduler) List() []Status {
	s.mu.RLock()
	out := make([]Status, 0, len(s.entries))
	for _, e := range s.entries {
		e.mu.Lock()
		out = append(out, e.status)
		e.mu.Unlock()
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
