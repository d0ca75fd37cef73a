package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/audio"
	"tymodoro/internal/audio/synth"
	"tymodoro/internal/config"
	"tymodoro/internal/core/model"
	"tymodoro/internal/core/session"
	"tymodoro/internal/core/stats"
	"tymodoro/internal/notify"
	"tymodoro/internal/platform"
	"tymodoro/internal/storage"
	"tymodoro/internal/surface"
	"tymodoro/internal/surface/httpbridge"
)

// core holds the collaborators shared by the desktop and terminal modes.
type core struct {
	cfg    config.Config
	logger zerolog.Logger

	store      *storage.Store
	controller *session.Controller
	scheduler  *session.Scheduler
	recorder   *stats.Recorder
	engine     *audio.Engine
	hub        *surface.Hub
	relay      *surface.Relay
	idle       *session.IdleWatcher
	autostart  *platform.Autostart

	mu        sync.Mutex
	settings  model.Settings
	notifier  notify.Notifier
	summaries []func(model.Summary)
}

func newCore(cfg config.Config, logger zerolog.Logger) (*core, error) {
	store, err := storage.NewStore(dataDir)
	if err != nil {
		return nil, err
	}
	settings, err := store.LoadSettings()
	if err != nil {
		logger.Warn().Err(err).Str("dir", store.Dir()).Msg("settings partially restored")
	}
	recorder, err := stats.NewRecorder(store, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("statistics partially restored")
	}

	controller := session.New(settings.Session, session.SystemClock{})
	hub := surface.NewHub(16, logger)
	relay := surface.NewRelay(controller, hub, logger)
	scheduler := session.NewScheduler(controller, session.SystemClock{}, session.SchedulerConfig{
		PollInterval:      cfg.PollInterval,
		BroadcastInterval: cfg.BroadcastInterval,
	}, logger)
	scheduler.OnBroadcast(relay.Rebroadcast)

	idle := session.NewIdleWatcher(controller, platform.NewIdleProvider(), session.DefaultIdleCheckInterval, logger)
	idle.SetThreshold(time.Duration(settings.System.IdlePauseMinutes) * time.Minute)

	engine := audio.NewEngine(audio.NewOpener(), audio.Options{
		SampleRate:     cfg.SampleRate,
		Volume:         settings.Audio.Volume,
		MuteStopsVoice: settings.Audio.MuteStopsVoice,
	}, logger)

	c := &core{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		controller: controller,
		scheduler:  scheduler,
		recorder:   recorder,
		engine:     engine,
		hub:        hub,
		relay:      relay,
		idle:       idle,
		autostart:  platform.NewAutostart(appName),
		settings:   settings,
		notifier:   notify.NewLogNotifier(logger),
	}
	controller.OnComplete(c.handleCompleted)
	engine.OnChange(c.rememberAudio)
	idle.OnPause(c.handleAway)
	return c, nil
}

// Start runs the background loops until ctx is done.
func (c *core) Start(ctx context.Context) {
	go c.relay.Run(ctx)
	go c.scheduler.Run(ctx)
	go c.idle.Run(ctx)

	if c.cfg.HTTPAddr != "" {
		go func() {
			if err := httpbridge.Serve(ctx, c.cfg.HTTPAddr, c.hub, c.logger); err != nil {
				c.logger.Error().Err(err).Msg("sync bridge stopped")
			}
		}()
	}

	if c.cfg.Hotkeys {
		err := platform.ListenShortcuts(ctx, c.logger,
			platform.Binding{Name: "toggle", Shortcut: platform.NewToggleShortcut(), Action: c.controller.Toggle},
			platform.Binding{Name: "skip", Shortcut: platform.NewSkipShortcut(), Action: c.Skip},
		)
		if err != nil {
			c.logger.Warn().Err(err).Msg("global shortcuts unavailable")
		}
	}
}

// Close stops the controller and releases the audio device.
func (c *core) Close() {
	c.controller.Close()
	if err := c.engine.Close(); err != nil {
		c.logger.Warn().Err(err).Msg("close audio")
	}
}

func (c *core) SetNotifier(notifier notify.Notifier) {
	c.mu.Lock()
	c.notifier = notifier
	c.mu.Unlock()
}

// OnSummary registers a listener for refreshed statistics. It is called once
// right away.
func (c *core) OnSummary(listener func(model.Summary)) {
	c.mu.Lock()
	c.summaries = append(c.summaries, listener)
	c.mu.Unlock()
	listener(c.recorder.Summary(time.Now()))
}

func (c *core) Settings() model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// ApplySettings pushes saved preferences into the controller and the engine.
func (c *core) ApplySettings(updated model.Settings) {
	c.mu.Lock()
	updated.Audio.LastGenerator = c.settings.Audio.LastGenerator
	launchChanged := c.settings.System.LaunchAtLogin != updated.System.LaunchAtLogin
	c.settings = updated
	c.mu.Unlock()

	if launchChanged {
		if err := c.autostart.Set(updated.System.LaunchAtLogin); err != nil {
			c.logger.Error().Err(err).Msg("update launch at login")
		}
	}
	c.idle.SetThreshold(time.Duration(updated.System.IdlePauseMinutes) * time.Minute)
	c.controller.UpdateConfig(updated.Session)
	c.engine.SetMuteStopsVoice(updated.Audio.MuteStopsVoice)
	c.engine.SetVolume(updated.Audio.Volume)
	c.save()
}

func (c *core) Skip() {
	c.relay.Apply(surface.CommandSkip)
}

func (c *core) SelectSound(generator synth.Generator) {
	if err := c.engine.Select(generator); err != nil {
		c.logger.Error().Err(err).Str("generator", generator.String()).Msg("select sound")
	}
}

func (c *core) handleCompleted(completed model.SessionCompleted) {
	c.recorder.Record(completed)

	c.mu.Lock()
	soundEnabled := c.settings.Audio.SoundEnabled
	notifier := c.notifier
	listeners := append([]func(model.Summary){}, c.summaries...)
	c.mu.Unlock()

	if soundEnabled {
		notify.Completion(notifier, completed)
		if err := c.engine.PlayBeep(); err != nil {
			c.logger.Warn().Err(err).Msg("completion beep")
		}
	}

	summary := c.recorder.Summary(time.Now())
	for _, listener := range listeners {
		listener(summary)
	}
}

func (c *core) handleAway(away time.Duration) {
	c.mu.Lock()
	notifier := c.notifier
	c.mu.Unlock()
	notifier.Notify(notify.Title, notify.AwayMessage(away))
}

// rememberAudio persists the chosen generator and volume.
func (c *core) rememberAudio(state audio.State) {
	c.mu.Lock()
	changed := false
	if state.Active && c.settings.Audio.LastGenerator != state.Generator.String() {
		c.settings.Audio.LastGenerator = state.Generator.String()
		changed = true
	}
	if c.settings.Audio.Volume != state.Volume {
		c.settings.Audio.Volume = state.Volume
		changed = true
	}
	c.mu.Unlock()

	if changed {
		c.save()
	}
}

// Remembered returns the generator to resume: the last one started in this
// run, or the one persisted from a previous run.
func (c *core) Remembered() (synth.Generator, bool) {
	if generator := c.engine.Remembered(); generator.Valid() {
		return generator, true
	}
	name := c.Settings().Audio.LastGenerator
	if name == "" {
		return 0, false
	}
	generator, err := synth.ParseGenerator(name)
	if err != nil {
		c.logger.Warn().Err(err).Msg("ignoring remembered generator")
		return 0, false
	}
	return generator, true
}

func (c *core) save() {
	if err := c.store.SaveSettings(c.Settings()); err != nil {
		c.logger.Error().Err(err).Msg("save settings")
	}
}
