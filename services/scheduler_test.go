package services

import (
	"context"
	"testing"
	"time"

	"game-contest-system/models"
)

func TestMisfireGatePermitsOnTimeFirings(t *testing.T) {
	gate := newMisfireGate(4*time.Minute, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if !gate.permit(now) {
		t.Fatal("expected first firing to be permitted")
	}
	// Exactly on schedule.
	now = now.Add(4 * time.Minute)
	if !gate.permit(now) {
		t.Fatal("expected on-time firing to be permitted")
	}
	// 30s late, within the grace window.
	now = now.Add(4*time.Minute + 30*time.Second)
	if !gate.permit(now) {
		t.Fatal("expected firing within grace to be permitted")
	}
}

func TestMisfireGatePermitsFiringAfterSkippedSlot(t *testing.T) {
	gate := newMisfireGate(4*time.Minute, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gate.permit(now)

	// A long run held the singleton lock through the next slot, so that
	// slot never fired at all. The firing after it lands on its own slot
	// and must not be treated as late for the skipped one.
	if !gate.permit(now.Add(8 * time.Minute)) {
		t.Fatal("expected on-time firing after a skipped slot to be permitted")
	}

	// Several slots skipped in a row, then a firing 30s into the grace
	// window of the nearest slot.
	if !gate.permit(now.Add(20*time.Minute + 30*time.Second)) {
		t.Fatal("expected firing within grace after skipped slots to be permitted")
	}
}

func TestMisfireGateDropsFiringsBeyondGrace(t *testing.T) {
	gate := newMisfireGate(4*time.Minute, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gate.permit(now)

	// Process stalled: the firing arrives 2 minutes past its slot.
	now = now.Add(6 * time.Minute)
	if gate.permit(now) {
		t.Fatal("expected firing beyond grace to be dropped")
	}

	// The schedule recovers afterwards: the next on-time firing runs.
	now = now.Add(4 * time.Minute)
	if !gate.permit(now) {
		t.Fatal("expected schedule to recover after a dropped firing")
	}
}

func TestSchedulerRegistersBothJobs(t *testing.T) {
	store := newFakeStore()
	platform := &fakePlatform{postID: "tweet-1", replyID: "announce-1"}
	lifecycle := newTestLifecycle(store, platform, &stubJudge{}, time.Hour)

	scheduler, err := NewScheduler(lifecycle)
	if err != nil {
		t.Fatalf("expected scheduler to be created, got %v", err)
	}
	if err := scheduler.ScheduleCreateGame(context.Background(), time.Hour, false); err != nil {
		t.Fatalf("expected create job to register, got %v", err)
	}
	if err := scheduler.ScheduleCloseGame(context.Background(), time.Hour); err != nil {
		t.Fatalf("expected close job to register, got %v", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}

// ctxReportingStore records the context state the sweep observed.
type ctxReportingStore struct {
	*fakeStore
	listed chan error
}

func (s *ctxReportingStore) ListOpen(ctx context.Context) ([]models.ContestGame, error) {
	s.listed <- ctx.Err()
	return s.fakeStore.ListOpen(ctx)
}

func TestCloseJobRunsAfterSchedulingContextCanceled(t *testing.T) {
	store := &ctxReportingStore{fakeStore: newFakeStore(), listed: make(chan error, 1)}
	platform := &fakePlatform{}
	lifecycle := NewLifecycle(store, platform, NewWinnerSelector(&stubJudge{}), time.Hour)

	scheduler, err := NewScheduler(lifecycle)
	if err != nil {
		t.Fatalf("expected scheduler to be created, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.ScheduleCloseGame(ctx, time.Hour); err != nil {
		t.Fatalf("expected close job to register, got %v", err)
	}

	// Cancel before the job ever fires, the way a shutdown signal would.
	// The sweep must still run on a live context.
	cancel()
	scheduler.Start()
	defer scheduler.Shutdown()

	var ctxErr error
	select {
	case ctxErr = <-store.listed:
	case <-time.After(5 * time.Second):
		t.Fatal("close sweep never ran")
	}
	if ctxErr != nil {
		t.Fatalf("expected the sweep context to stay live, got %v", ctxErr)
	}
}
