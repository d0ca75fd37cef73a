package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// DefaultIdleCheckInterval is how often IdleWatcher polls the checker.
const DefaultIdleCheckInterval = 5 * time.Second

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// IdleWatcher pauses a running focus session once the user has been away
// for the configured threshold. Time spent away is not counted as focus.
// Breaks are never paused.
type IdleWatcher struct {
	controller *Controller
	interval   time.Duration
	logger     zerolog.Logger

	mu        sync.Mutex
	checker   IdleChecker
	threshold time.Duration
	onPause   []func(away time.Duration)
}

// NewIdleWatcher creates a disabled watcher. SetThreshold enables it.
func NewIdleWatcher(controller *Controller, checker IdleChecker, interval time.Duration, logger zerolog.Logger) *IdleWatcher {
	if interval <= 0 {
		interval = DefaultIdleCheckInterval
	}
	return &IdleWatcher{
		controller: controller,
		checker:    checker,
		interval:   interval,
		logger:     logger,
	}
}

// SetThreshold sets the inactivity that triggers a pause. Zero disables.
func (watcher *IdleWatcher) SetThreshold(threshold time.Duration) {
	watcher.mu.Lock()
	watcher.threshold = max(threshold, 0)
	watcher.mu.Unlock()
}

// OnPause registers a hook called after an idle pause.
func (watcher *IdleWatcher) OnPause(hook func(away time.Duration)) {
	if hook == nil {
		return
	}
	watcher.mu.Lock()
	watcher.onPause = append(watcher.onPause, hook)
	watcher.mu.Unlock()
}

// Run polls until ctx is cancelled.
func (watcher *IdleWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(watcher.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			watcher.Check()
		}
	}
}

// Check polls the checker once and pauses if the user is away. It reports
// whether the session was paused.
func (watcher *IdleWatcher) Check() bool {
	watcher.mu.Lock()
	checker := watcher.checker
	threshold := watcher.threshold
	watcher.mu.Unlock()

	if checker == nil || threshold <= 0 {
		return false
	}
	if !watcher.controller.Running() || watcher.controller.Kind() != model.KindWork {
		return false
	}

	away, err := checker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			watcher.logger.Info().Msg("idle detection unsupported; auto-pause disabled")
			watcher.mu.Lock()
			watcher.checker = nil
			watcher.mu.Unlock()
			return false
		}
		watcher.logger.Debug().Err(err).Msg("idle check failed")
		return false
	}
	if away < threshold {
		return false
	}
	if !watcher.controller.PauseAway(away) {
		return false
	}

	watcher.logger.Info().Dur("away", away).Msg("focus paused while away")
	watcher.mu.Lock()
	hooks := append([]func(time.Duration){}, watcher.onPause...)
	watcher.mu.Unlock()
	for _, hook := range hooks {
		hook(away)
	}
	return true
}
