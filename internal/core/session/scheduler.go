package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

const (
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultBroadcastInterval = time.Second
)

// SchedulerConfig contains runtime options for Scheduler.
type SchedulerConfig struct {
	PollInterval      time.Duration
	BroadcastInterval time.Duration
}

// Scheduler advances a Controller cooperatively.
// It may be suspended for an arbitrary time; Recompute catches up using the
// wall clock alone.
type Scheduler struct {
	controller *Controller
	clock      Clock
	options    SchedulerConfig
	logger     zerolog.Logger

	mu         sync.Mutex
	broadcasts []func(model.Snapshot)
}

// NewScheduler creates a Scheduler for controller.
func NewScheduler(controller *Controller, clock Clock, options SchedulerConfig, logger zerolog.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultPollInterval
	}
	if options.BroadcastInterval <= 0 {
		options.BroadcastInterval = DefaultBroadcastInterval
	}
	return &Scheduler{
		controller: controller,
		clock:      clock,
		options:    options,
		logger:     logger,
	}
}

// OnBroadcast registers a hook called with a fresh snapshot every
// BroadcastInterval, so receivers recover from lost messages.
func (scheduler *Scheduler) OnBroadcast(hook func(model.Snapshot)) {
	if hook == nil {
		return
	}
	scheduler.mu.Lock()
	scheduler.broadcasts = append(scheduler.broadcasts, hook)
	scheduler.mu.Unlock()
}

// Run polls the controller until ctx is cancelled.
func (scheduler *Scheduler) Run(ctx context.Context) {
	poll := time.NewTicker(scheduler.options.PollInterval)
	defer poll.Stop()
	broadcast := time.NewTicker(scheduler.options.BroadcastInterval)
	defer broadcast.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			scheduler.step(scheduler.clock.Now())
		case <-broadcast.C:
			scheduler.broadcast()
		}
	}
}

// Recompute advances the controller immediately. Call it when the process
// regains the foreground after polling may have been suspended.
func (scheduler *Scheduler) Recompute() {
	now := scheduler.clock.Now()
	scheduler.logger.Debug().Time("at", now).Msg("recompute on foreground")
	scheduler.step(now)
	scheduler.broadcast()
}

func (scheduler *Scheduler) step(now time.Time) {
	completed, ok := scheduler.controller.Advance(now)
	if !ok {
		return
	}
	scheduler.logger.Info().
		Str("kind", completed.Kind.String()).
		Str("next", completed.Next.String()).
		Int("minutes", completed.Minutes).
		Msg("session completed")
}

func (scheduler *Scheduler) broadcast() {
	scheduler.mu.Lock()
	hooks := append([]func(model.Snapshot){}, scheduler.broadcasts...)
	scheduler.mu.Unlock()
	if len(hooks) == 0 {
		return
	}
	snapshot := scheduler.controller.Snapshot()
	for _, hook := range hooks {
		hook(snapshot)
	}
}
