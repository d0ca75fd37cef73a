package main

import (
	"context"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"tymodoro/internal/audio"
	"tymodoro/internal/core/model"
	"tymodoro/internal/notify"
	"tymodoro/internal/platform"
	"tymodoro/internal/surface"
	"tymodoro/internal/ui/floating"
	"tymodoro/internal/ui/preferences"
	"tymodoro/internal/ui/timer"
	"tymodoro/internal/ui/tray"
	"tymodoro/resources"
)

const floatingOpacity = 0.85

// runDesktop runs the fyne widget: primary window, tray menu and the
// floating mini timer. It blocks until the app quits.
func runDesktop(ctx context.Context, c *core, guard *platform.InstanceGuard) error {
	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())

	c.SetNotifier(notify.Multi{notify.NewFyneNotifier(fyneApp), notify.NewLogNotifier(c.logger)})

	primary := timer.New(fyneApp, timer.Controls{
		OnToggle:      c.controller.Toggle,
		OnSkip:        c.Skip,
		OnReset:       c.controller.Reset,
		OnSelectKind:  c.controller.Select,
		OnSelectSound: c.SelectSound,
		OnStopSound:   c.engine.StopVoice,
		OnVolume:      c.engine.SetVolume,
	})
	c.relay.SetConfirm(primary.Confirm)
	c.hub.Attach(primary)

	mini := floating.New(fyneApp, c.hub, floating.Config{Opacity: opacityToAlpha(floatingOpacity)})

	prefsWindow := preferences.New(fyneApp, c.Settings(), c.ApplySettings)

	quit := func() {
		fyneApp.Quit()
	}

	desktopApp, hasTray := fyneApp.(desktop.App)
	var trayManager *tray.Manager
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnToggle:       c.controller.Toggle,
			OnSkip:         c.Skip,
			OnReset:        c.controller.Reset,
			OnSelectKind:   c.controller.Select,
			OnSelectSound:  c.SelectSound,
			OnStopSound:    c.engine.StopVoice,
			OnVolume:       c.engine.SetVolume,
			OnShowTimer:    primary.Show,
			OnShowFloating: mini.Toggle,
			OnStatistics:   primary.ShowStatistics,
			OnPreferences: func() {
				prefsWindow.UpdateSettings(c.Settings())
				prefsWindow.Show()
			},
			OnQuit: quit,
		})
		c.hub.Attach(trayManager)
		c.hub.Attach(newTrayIconSurface(desktopApp))
		desktopApp.SetSystemTrayIcon(resources.TrayIcon(model.Snapshot{}))
	} else {
		c.logger.Info().Msg("system tray unsupported; closing the timer window quits")
	}

	// Hidden windows keep the app alive only when the tray can bring them back.
	primary.Window().SetCloseIntercept(func() {
		if hasTray {
			primary.Window().Hide()
			return
		}
		quit()
	})

	c.engine.OnChange(func(state audio.State) {
		fyne.Do(func() {
			primary.SetAudioState(state)
			if trayManager != nil {
				trayManager.SetAudioState(state)
			}
		})
	})
	c.OnSummary(func(summary model.Summary) {
		fyne.Do(func() {
			primary.SetSummary(summary)
		})
	})
	initial := c.engine.State()
	primary.SetAudioState(initial)
	if trayManager != nil {
		trayManager.SetAudioState(initial)
	}

	// Timers may have stalled while the machine slept.
	fyneApp.Lifecycle().SetOnEnteredForeground(c.scheduler.Recompute)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	fyneApp.Lifecycle().SetOnStopped(cancel)

	go guard.Serve(runCtx, func() {
		fyne.Do(primary.Show)
	})
	go func() {
		<-runCtx.Done()
		if ctx.Err() != nil {
			fyne.Do(quit)
		}
	}()

	c.Start(runCtx)
	primary.Show()
	fyneApp.Run()

	mini.Close()
	primary.Close()
	return nil
}

// trayIconSurface swaps the tray icon when the timer state changes.
type trayIconSurface struct {
	id   string
	app  desktop.App
	last atomic.Value
}

func newTrayIconSurface(app desktop.App) *trayIconSurface {
	return &trayIconSurface{id: "tray-icon:" + surface.NewSurfaceID(), app: app}
}

func (icon *trayIconSurface) ID() string  { return icon.id }
func (icon *trayIconSurface) Alive() bool { return true }

func (icon *trayIconSurface) Deliver(message surface.Message) {
	snapshotMessage, ok := message.(surface.SnapshotMessage)
	if !ok {
		return
	}
	resource := resources.TrayIcon(snapshotMessage.Snapshot)
	if previous, _ := icon.last.Swap(resource.Name()).(string); previous == resource.Name() {
		return
	}
	fyne.Do(func() {
		icon.app.SetSystemTrayIcon(resource)
	})
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
