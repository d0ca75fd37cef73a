package session

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

type fakeIdle struct {
	away  time.Duration
	err   error
	calls int
}

func (idle *fakeIdle) IdleDuration() (time.Duration, error) {
	idle.calls++
	return idle.away, idle.err
}

func TestIdleWatcherPausesAndReturnsAwayTime(t *testing.T) {
	clock := newFakeClock()
	controller := newTestController(clock)
	idle := &fakeIdle{}
	watcher := NewIdleWatcher(controller, idle, 0, zerolog.Nop())
	watcher.SetThreshold(5 * time.Minute)

	var paused []time.Duration
	watcher.OnPause(func(away time.Duration) { paused = append(paused, away) })

	controller.Start()
	clock.Advance(10 * time.Minute)
	idle.away = 4 * time.Minute
	if watcher.Check() {
		t.Fatal("paused below threshold")
	}

	idle.away = 6 * time.Minute
	if !watcher.Check() {
		t.Fatal("expected idle pause")
	}
	if controller.Running() {
		t.Error("controller still running")
	}
	// 10 minutes elapsed, 6 of them away: 4 minutes count.
	if got := controller.Snapshot().RemainingSeconds; got != 1500-4*60 {
		t.Errorf("RemainingSeconds = %d, want %d", got, 1500-4*60)
	}
	if len(paused) != 1 || paused[0] != 6*time.Minute {
		t.Errorf("OnPause = %v", paused)
	}
}

func TestIdleWatcherNeverGivesBackMoreThanTheRun(t *testing.T) {
	clock := newFakeClock()
	controller := newTestController(clock)
	watcher := NewIdleWatcher(controller, &fakeIdle{away: time.Hour}, 0, zerolog.Nop())
	watcher.SetThreshold(time.Minute)

	controller.Start()
	clock.Advance(2 * time.Minute)
	controller.Pause()
	controller.Start()
	clock.Advance(3 * time.Minute)

	watcher.Check()
	if got := controller.Snapshot().RemainingSeconds; got != 1500-2*60 {
		t.Errorf("RemainingSeconds = %d, want earlier run kept", got)
	}
}

func TestIdleWatcherIgnoresBreaksAndDisabled(t *testing.T) {
	clock := newFakeClock()
	controller := newTestController(clock)
	idle := &fakeIdle{away: time.Hour}
	watcher := NewIdleWatcher(controller, idle, 0, zerolog.Nop())

	controller.Start()
	if watcher.Check() {
		t.Error("paused with zero threshold")
	}

	watcher.SetThreshold(time.Minute)
	controller.Select(model.KindShortBreak)
	controller.Start()
	if watcher.Check() || !controller.Running() {
		t.Error("breaks must not be paused")
	}
	if idle.calls != 0 {
		t.Errorf("checker polled %d times, want 0", idle.calls)
	}
}

func TestIdleWatcherDisablesWhenUnsupported(t *testing.T) {
	clock := newFakeClock()
	controller := newTestController(clock)
	idle := &fakeIdle{err: ErrIdleUnsupported}
	watcher := NewIdleWatcher(controller, idle, 0, zerolog.Nop())
	watcher.SetThreshold(time.Minute)
	controller.Start()

	watcher.Check()
	watcher.Check()
	if idle.calls != 1 {
		t.Errorf("calls = %d, want checker dropped after unsupported", idle.calls)
	}

	failing := &fakeIdle{err: errors.New("boom")}
	watcher = NewIdleWatcher(controller, failing, 0, zerolog.Nop())
	watcher.SetThreshold(time.Minute)
	watcher.Check()
	watcher.Check()
	if failing.calls != 2 || !controller.Running() {
		t.Errorf("transient errors should keep polling: calls = %d", failing.calls)
	}
}
