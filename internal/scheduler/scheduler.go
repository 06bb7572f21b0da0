package scheduler

import (
	"context"
	"sync"
	"time"

	"paper-assistant-be/internal/pkg/logger"
)

// TaskFunc is the work a scheduled task performs.
type TaskFunc func(ctx context.Context) error

type taskKind string

const (
	kindDaily    taskKind = "daily"
	kindInterval taskKind = "interval"
)

type task struct {
	name string
	kind taskKind
	fn   TaskFunc

	// daily tasks
	hour, minute int

	// interval tasks
	every time.Duration

	lastRun *time.Time
	running bool
}

// TaskStatus is the inspection view of one registered task.
type TaskStatus struct {
	Name    string
	Kind    string
	LastRun *time.Time
	NextRun time.Time
	Running bool
}

// Scheduler drives the background jobs (topic fetch, digest, index check,
// conversation eviction) off a one-minute tick. Tasks run in their own
// goroutine; a task still running when its slot comes around again is
// skipped, never stacked.
type Scheduler struct {
	mu     sync.Mutex
	tasks  []*task
	logger logger.ILogger

	cancel  context.CancelFunc
	started bool
}

func New(log logger.ILogger) *Scheduler {
	return &Scheduler{
		logger: log,
	}
}

// AddDailyTask registers fn to run once a day at hour:minute local time.
func (s *Scheduler) AddDailyTask(name string, hour, minute int, fn TaskFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, &task{
		name:   name,
		kind:   kindDaily,
		hour:   hour,
		minute: minute,
		fn:     fn,
	})
}

// AddIntervalTask registers fn to run every `every` (minimum one minute).
func (s *Scheduler) AddIntervalTask(name string, every time.Duration, fn TaskFunc) {
	if every < time.Minute {
		every = time.Minute
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, &task{
		name:  name,
		kind:  kindInterval,
		every: every,
		fn:    fn,
	})
}

// Start begins the tick loop. It returns immediately; Stop (or cancelling
// ctx) shuts the loop down.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.mu.Unlock()

	s.logger.Info("Scheduler", "Scheduler started", map[string]interface{}{"tasks": len(s.tasks)})

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Scheduler", "Scheduler stopped", nil)
				return
			case now := <-ticker.C:
				s.tick(ctx, now)
			}
		}
	}()
}

// Stop halts the tick loop. Tasks already in flight finish on their own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.started = false
	}
}

// Running reports whether the tick loop is live.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.running || !due(t, now) {
			continue
		}
		t.running = true
		go s.runTask(ctx, t, now)
	}
}

func (s *Scheduler) runTask(ctx context.Context, t *task, now time.Time) {
	defer func() {
		s.mu.Lock()
		t.running = false
		t.lastRun = &now
		s.mu.Unlock()
	}()

	s.logger.Info("Scheduler", "Task starting", map[string]interface{}{"task": t.name})
	if err := t.fn(ctx); err != nil {
		s.logger.Error("Scheduler", "Task failed", map[string]interface{}{"task": t.name, "error": err.Error()})
		return
	}
	s.logger.Info("Scheduler", "Task finished", map[string]interface{}{"task": t.name})
}

// due decides whether a task fires on this tick.
func due(t *task, now time.Time) bool {
	switch t.kind {
	case kindDaily:
		if now.Hour() != t.hour || now.Minute() != t.minute {
			return false
		}
		// Guard against a second tick landing in the same minute.
		return t.lastRun == nil || now.Sub(*t.lastRun) > time.Minute
	case kindInterval:
		return t.lastRun == nil || now.Sub(*t.lastRun) >= t.every
	}
	return false
}

// Status returns a snapshot of every registered task.
func (s *Scheduler) Status(now time.Time) []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]TaskStatus, len(s.tasks))
	for i, t := range s.tasks {
		statuses[i] = TaskStatus{
			Name:    t.name,
			Kind:    string(t.kind),
			LastRun: t.lastRun,
			NextRun: nextRun(t, now),
			Running: t.running,
		}
	}
	return statuses
}

func nextRun(t *task, now time.Time) time.Time {
	switch t.kind {
	case kindDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		return next
	case kindInterval:
		if t.lastRun == nil {
			return now
		}
		return t.lastRun.Add(t.every)
	}
	return now
}
