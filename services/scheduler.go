// services/scheduler.go
package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// A firing delayed past this grace window is dropped instead of run late,
// so a stalled process does not pile up stale runs.
const misfireGrace = 60 * time.Second

// Scheduler drives the two periodic jobs. Each job runs in singleton mode
// (a firing that lands while the previous run is still going is
// rescheduled, never overlapped); the two jobs are independent of each
// other.
type Scheduler struct {
	sched     gocron.Scheduler
	lifecycle *Lifecycle
}

func NewScheduler(lifecycle *Lifecycle) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{sched: sched, lifecycle: lifecycle}, nil
}

// ScheduleCreateGame registers the create-game job.
func (s *Scheduler) ScheduleCreateGame(ctx context.Context, interval time.Duration, runOnStartup bool) error {
	gate := newMisfireGate(interval, misfireGrace)
	// An in-flight run finishes even after the caller's context is
	// canceled at shutdown; Shutdown waits for it. The caller's values
	// still flow through.
	jobCtx := context.WithoutCancel(ctx)
	opts := []gocron.JobOption{
		gocron.WithName("create_game_job"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if runOnStartup {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if !gate.permit(time.Now()) {
				log.Printf("create_game_job fired too late, dropping this run")
				return
			}
			if err := s.lifecycle.OpenGame(jobCtx); err != nil {
				log.Printf("create_game_job failed: %v", err)
			}
		}),
		opts...,
	)
	if err != nil {
		return err
	}
	log.Printf("scheduled create game task every %s, run_on_startup=%v", interval, runOnStartup)
	return nil
}

// ScheduleCloseGame registers the close-game sweep. It always fires
// immediately at startup so overdue games from a previous run are closed
// without waiting a full interval.
func (s *Scheduler) ScheduleCloseGame(ctx context.Context, interval time.Duration) error {
	gate := newMisfireGate(interval, misfireGrace)
	// As with the create job, a sweep that has already started is not cut
	// short by shutdown; a half-run sweep could announce a winner without
	// recording it.
	jobCtx := context.WithoutCancel(ctx)
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if !gate.permit(time.Now()) {
				log.Printf("close_game_job fired too late, dropping this run")
				return
			}
			s.lifecycle.CloseSweep(jobCtx)
		}),
		gocron.WithName("close_game_job"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}
	log.Printf("scheduled close game task every %s", interval)
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	log.Println("scheduler started")
}

// Shutdown stops new firings and waits for in-flight job runs to finish.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// misfireGate tracks when a job was supposed to fire and rejects firings
// that arrive beyond the grace window.
type misfireGate struct {
	mu       sync.Mutex
	interval time.Duration
	grace    time.Duration
	expected time.Time
}

func newMisfireGate(interval, grace time.Duration) *misfireGate {
	return &misfireGate{interval: interval, grace: grace}
}

func (g *misfireGate) permit(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	// First firing has no expectation to compare against.
	if g.expected.IsZero() {
		g.expected = now.Add(g.interval)
		return true
	}
	// Singleton mode skips a trigger entirely while a run is still in
	// flight, so this firing may belong to a later slot. Lateness is
	// measured against the nearest slot, not the oldest missed one.
	slot := g.expected
	for !slot.Add(g.interval).After(now) {
		slot = slot.Add(g.interval)
	}
	late := now.Sub(slot)
	g.expected = now.Add(g.interval)
	return late <= g.grace
}
