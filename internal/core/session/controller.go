package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tymodoro/internal/core/model"
)

// SkipConfirmPercent is the completion percentage below which skipping a work
// session requires explicit confirmation.
const SkipConfirmPercent = 90.0

// CompletionHandler receives every finished session. Handlers run after the
// controller lock is released and may call back into the controller.
type CompletionHandler func(model.SessionCompleted)

// Controller is the session state machine.
// Remaining time is always derived from wall-clock timestamps, never from the
// number of ticks observed, so suspended polling cannot skew it.
type Controller struct {
	mu            sync.Mutex
	config        model.SessionConfig
	clock         Clock
	sessionID     string
	kind          model.Kind
	totalSeconds  int
	startedAt     time.Time
	accumulated   time.Duration
	running       bool
	completedWork int
	lastRemaining int
	events        []chan Event
	handlers      []CompletionHandler
}

// New creates a Controller in an idle work session.
func New(config model.SessionConfig, clock Clock) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	controller := &Controller{
		config: config.Normalize(),
		clock:  clock,
	}
	controller.loadKindLocked(model.KindWork)
	return controller
}

// Subscribe registers a new observer channel.
// Slow observers miss events rather than blocking the state machine.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	controller.events = append(controller.events, ch)
	controller.mu.Unlock()
	return ch
}

// OnComplete registers a completion handler.
func (controller *Controller) OnComplete(handler CompletionHandler) {
	if handler == nil {
		return
	}
	controller.mu.Lock()
	controller.handlers = append(controller.handlers, handler)
	controller.mu.Unlock()
}

// Close closes all observer channels.
func (controller *Controller) Close() {
	controller.mu.Lock()
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start begins or resumes the current session. No-op when already running.
func (controller *Controller) Start() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.startLocked(controller.clock.Now())
}

// Pause freezes elapsed time. No-op when not running.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.pauseLocked(controller.clock.Now())
}

// PauseAway pauses a running session and gives back the last away of elapsed
// time, never more than the current run. It reports whether it paused.
func (controller *Controller) PauseAway(away time.Duration) bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.running {
		return false
	}
	now := controller.clock.Now()
	stoppedAt := now.Add(-away)
	if stoppedAt.Before(controller.startedAt) {
		stoppedAt = controller.startedAt
	}
	if stoppedAt.After(now) {
		stoppedAt = now
	}
	controller.accumulated += stoppedAt.Sub(controller.startedAt)
	controller.running = false
	controller.lastRemaining = controller.remainingLocked(now)
	controller.emitStateLocked(now)
	return true
}

// Toggle starts an idle session or pauses a running one.
func (controller *Controller) Toggle() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	now := controller.clock.Now()
	if controller.running {
		controller.pauseLocked(now)
		return
	}
	controller.startLocked(now)
}

// Tick recomputes the remaining time at now without changing state.
// Expired is reported while running once remaining reaches zero; the caller
// is responsible for invoking Complete exactly once for that crossing.
func (controller *Controller) Tick(now time.Time) TickResult {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.tickLocked(now)
}

// Advance ticks at now and completes the session if it expired.
func (controller *Controller) Advance(now time.Time) (model.SessionCompleted, bool) {
	controller.mu.Lock()
	result := controller.tickLocked(now)
	if !result.Expired {
		controller.mu.Unlock()
		return model.SessionCompleted{}, false
	}
	completed := controller.completeLocked(now, false)
	handlers := controller.handlers
	controller.mu.Unlock()

	dispatch(handlers, completed)
	return completed, true
}

// Complete ends the current session and loads the one that follows it.
func (controller *Controller) Complete() model.SessionCompleted {
	return controller.finish(false)
}

// Skip ends the current session early. Work sessions below
// SkipConfirmPercent are left untouched and require confirmation instead.
func (controller *Controller) Skip() SkipResult {
	controller.mu.Lock()
	now := controller.clock.Now()
	percent := controller.percentCompleteLocked(now)
	if controller.kind == model.KindWork && percent < SkipConfirmPercent {
		controller.emitLocked(Event{
			Type:     EventConfirmSkip,
			Snapshot: controller.snapshotLocked(now),
			Percent:  percent,
			At:       now,
		})
		controller.mu.Unlock()
		return SkipResult{RequiresConfirmation: true, PercentComplete: percent}
	}
	completed := controller.completeLocked(now, true)
	handlers := controller.handlers
	controller.mu.Unlock()

	dispatch(handlers, completed)
	return SkipResult{PercentComplete: percent, Completed: &completed}
}

// ForceSkip performs the completion transition without the threshold check.
func (controller *Controller) ForceSkip() model.SessionCompleted {
	return controller.finish(true)
}

// Reset reloads the current kind from configuration and stops the timer.
func (controller *Controller) Reset() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.loadKindLocked(controller.kind)
	controller.emitStateLocked(controller.clock.Now())
}

// Select switches to kind without counting anything.
func (controller *Controller) Select(kind model.Kind) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.loadKindLocked(kind)
	controller.emitStateLocked(controller.clock.Now())
}

// UpdateConfig replaces the configuration. An idle session is reloaded with
// the new duration; a running one keeps its duration until it ends.
func (controller *Controller) UpdateConfig(config model.SessionConfig) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.config = config.Normalize()
	if controller.running {
		return
	}
	controller.loadKindLocked(controller.kind)
	controller.emitStateLocked(controller.clock.Now())
}

// Config returns the active configuration.
func (controller *Controller) Config() model.SessionConfig {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.config
}

// Snapshot returns the current state for display surfaces.
func (controller *Controller) Snapshot() model.Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked(controller.clock.Now())
}

// Running reports whether the countdown is active.
func (controller *Controller) Running() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.running
}

// Kind returns the current session kind.
func (controller *Controller) Kind() model.Kind {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.kind
}

// CompletedWork returns the number of completed work sessions.
func (controller *Controller) CompletedWork() int {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.completedWork
}

func (controller *Controller) finish(skipped bool) model.SessionCompleted {
	controller.mu.Lock()
	completed := controller.completeLocked(controller.clock.Now(), skipped)
	handlers := controller.handlers
	controller.mu.Unlock()

	dispatch(handlers, completed)
	return completed
}

func (controller *Controller) startLocked(now time.Time) {
	if controller.running {
		return
	}
	controller.startedAt = now
	controller.running = true
	controller.emitStateLocked(now)
}

func (controller *Controller) pauseLocked(now time.Time) {
	if !controller.running {
		return
	}
	if segment := now.Sub(controller.startedAt); segment > 0 {
		controller.accumulated += segment
	}
	controller.running = false
	controller.lastRemaining = controller.remainingLocked(now)
	controller.emitStateLocked(now)
}

func (controller *Controller) tickLocked(now time.Time) TickResult {
	remaining := controller.remainingLocked(now)
	expired := controller.running && remaining <= 0
	if remaining < 0 {
		remaining = 0
	}
	if controller.running && remaining != controller.lastRemaining {
		controller.lastRemaining = remaining
		controller.emitLocked(Event{
			Type:     EventProgress,
			Snapshot: controller.snapshotLocked(now),
			At:       now,
		})
	}
	return TickResult{Remaining: remaining, Expired: expired}
}

func (controller *Controller) completeLocked(now time.Time, skipped bool) model.SessionCompleted {
	finished := controller.kind
	next := model.KindWork
	if finished == model.KindWork {
		controller.completedWork++
		next = model.KindShortBreak
		if controller.completedWork%controller.config.LongBreakAfter == 0 {
			next = model.KindLongBreak
		}
	}

	completed := model.SessionCompleted{
		SessionID: controller.sessionID,
		Kind:      finished,
		Minutes:   controller.totalSeconds / 60,
		Next:      next,
		Skipped:   skipped,
		At:        now,
	}

	controller.loadKindLocked(next)
	controller.emitLocked(Event{
		Type:      EventCompleted,
		Snapshot:  controller.snapshotLocked(now),
		Completed: &completed,
		At:        now,
	})
	controller.emitStateLocked(now)
	return completed
}

func (controller *Controller) loadKindLocked(kind model.Kind) {
	total := controller.config.Seconds(kind)
	if total <= 0 {
		panic(fmt.Sprintf("session: non-positive duration %d for %s", total, kind))
	}
	controller.kind = kind
	controller.totalSeconds = total
	controller.startedAt = time.Time{}
	controller.accumulated = 0
	controller.running = false
	controller.lastRemaining = total
	controller.sessionID = uuid.NewString()
}

func (controller *Controller) elapsedLocked(now time.Time) time.Duration {
	elapsed := controller.accumulated
	if controller.running {
		if segment := now.Sub(controller.startedAt); segment > 0 {
			elapsed += segment
		}
	}
	return elapsed
}

// remainingLocked may return a negative value once the session overran.
func (controller *Controller) remainingLocked(now time.Time) int {
	elapsedSeconds := int(controller.elapsedLocked(now) / time.Second)
	return controller.totalSeconds - elapsedSeconds
}

func (controller *Controller) percentCompleteLocked(now time.Time) float64 {
	remaining := controller.remainingLocked(now)
	if remaining < 0 {
		remaining = 0
	}
	return float64(controller.totalSeconds-remaining) / float64(controller.totalSeconds) * 100
}

func (controller *Controller) snapshotLocked(now time.Time) model.Snapshot {
	remaining := controller.remainingLocked(now)
	if remaining < 0 {
		remaining = 0
	}
	return model.Snapshot{
		SessionID:        controller.sessionID,
		Kind:             controller.kind,
		RemainingSeconds: remaining,
		TotalSeconds:     controller.totalSeconds,
		Running:          controller.running,
		CompletedWork:    controller.completedWork,
		At:               now,
	}
}

func (controller *Controller) emitStateLocked(now time.Time) {
	controller.emitLocked(Event{
		Type:     EventStateChange,
		Snapshot: controller.snapshotLocked(now),
		At:       now,
	})
}

func (controller *Controller) emitLocked(event Event) {
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func dispatch(handlers []CompletionHandler, completed model.SessionCompleted) {
	for _, handler := range handlers {
		handler(completed)
	}
}
