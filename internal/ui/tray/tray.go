package tray

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"

	"tymodoro/internal/audio"
	"tymodoro/internal/audio/synth"
	"tymodoro/internal/core/model"
	"tymodoro/internal/surface"
)

// MenuSetter is implemented by desktop.App.
type MenuSetter interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle       func()
	OnSkip         func()
	OnReset        func()
	OnSelectKind   func(model.Kind)
	OnSelectSound  func(synth.Generator)
	OnStopSound    func()
	OnVolume       func(float64)
	OnShowTimer    func()
	OnShowFloating func()
	OnStatistics   func()
	OnPreferences  func()
	OnQuit         func()
}

// VolumeLevels are the presets offered in the volume submenu.
var VolumeLevels = []float64{0, 0.1, 0.3, 0.5, 0.7, 1}

// Manager handles system tray state. It is also a display surface: every
// snapshot refreshes the status line.
type Manager struct {
	app        MenuSetter
	id         string
	callbacks  Callbacks
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	skipItem   *fyne.MenuItem
	kindItems  map[model.Kind]*fyne.MenuItem
	soundItems map[synth.Generator]*fyne.MenuItem
	stopItem   *fyne.MenuItem
	volumeItem *fyne.MenuItem
	levelItems []*fyne.MenuItem
}

// New creates a tray manager with the provided callbacks.
func New(app MenuSetter, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		id:         "tray:" + surface.NewSurfaceID(),
		callbacks:  callbacks,
		kindItems:  make(map[model.Kind]*fyne.MenuItem),
		soundItems: make(map[synth.Generator]*fyne.MenuItem),
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() { call(manager.callbacks.OnToggle) })
	manager.skipItem = fyne.NewMenuItem("Skip", func() { call(manager.callbacks.OnSkip) })
	reset := fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) })

	sessionItem := fyne.NewMenuItem("Session", nil)
	var kindMenu []*fyne.MenuItem
	for _, kind := range []model.Kind{model.KindWork, model.KindShortBreak, model.KindLongBreak} {
		item := fyne.NewMenuItem(kind.Label(), func() {
			if manager.callbacks.OnSelectKind != nil {
				manager.callbacks.OnSelectKind(kind)
			}
		})
		manager.kindItems[kind] = item
		kindMenu = append(kindMenu, item)
	}
	sessionItem.ChildMenu = fyne.NewMenu("", kindMenu...)

	ambientItem := fyne.NewMenuItem("Ambient sound", nil)
	binauralItem := fyne.NewMenuItem("Binaural beats", nil)
	var ambientMenu, binauralMenu []*fyne.MenuItem
	for _, generator := range synth.Generators() {
		item := fyne.NewMenuItem(generator.Label(), func() {
			if manager.callbacks.OnSelectSound != nil {
				manager.callbacks.OnSelectSound(generator)
			}
		})
		manager.soundItems[generator] = item
		if generator.IsBinaural() {
			binauralMenu = append(binauralMenu, item)
		} else {
			ambientMenu = append(ambientMenu, item)
		}
	}
	ambientItem.ChildMenu = fyne.NewMenu("", ambientMenu...)
	binauralItem.ChildMenu = fyne.NewMenu("", binauralMenu...)
	manager.stopItem = fyne.NewMenuItem("Stop sound", func() { call(manager.callbacks.OnStopSound) })
	manager.stopItem.Disabled = true

	manager.volumeItem = fyne.NewMenuItem("Volume", nil)
	for _, level := range VolumeLevels {
		label := fmt.Sprintf("%d%%", int(math.Round(level*100)))
		if level == 0 {
			label = "Mute"
		}
		item := fyne.NewMenuItem(label, func() {
			if manager.callbacks.OnVolume != nil {
				manager.callbacks.OnVolume(level)
			}
		})
		manager.levelItems = append(manager.levelItems, item)
	}
	manager.volumeItem.ChildMenu = fyne.NewMenu("", manager.levelItems...)

	manager.menu = fyne.NewMenu("TYMODORO",
		manager.statusItem,
		manager.toggleItem,
		manager.skipItem,
		reset,
		sessionItem,
		fyne.NewMenuItemSeparator(),
		ambientItem,
		binauralItem,
		manager.stopItem,
		manager.volumeItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", func() { call(manager.callbacks.OnShowTimer) }),
		fyne.NewMenuItem("Floating timer", func() { call(manager.callbacks.OnShowFloating) }),
		fyne.NewMenuItem("Statistics", func() { call(manager.callbacks.OnStatistics) }),
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	)
	manager.refreshMenu()

	return manager
}

// ID implements surface.Surface.
func (manager *Manager) ID() string { return manager.id }

// Alive implements surface.Surface. The tray lives as long as the app.
func (manager *Manager) Alive() bool { return true }

// Deliver implements surface.Surface.
func (manager *Manager) Deliver(message surface.Message) {
	snapshotMessage, ok := message.(surface.SnapshotMessage)
	if !ok {
		return
	}
	fyne.Do(func() {
		manager.SetSnapshot(snapshotMessage.Snapshot)
	})
}

// SetSnapshot updates the status line and the session items. Must run on the
// fyne goroutine.
func (manager *Manager) SetSnapshot(snapshot model.Snapshot) {
	status := fmt.Sprintf("%s %s", snapshot.Kind.Label(), snapshot.Clock())
	if !snapshot.Running {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)

	if snapshot.Running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	for kind, item := range manager.kindItems {
		item.Checked = kind == snapshot.Kind
	}
	manager.refreshMenu()
}

// SetAudioState marks the playing generator and the closest volume preset.
func (manager *Manager) SetAudioState(state audio.State) {
	for generator, item := range manager.soundItems {
		item.Checked = state.Active && generator == state.Generator
	}
	manager.stopItem.Disabled = !state.Active
	manager.volumeItem.Label = fmt.Sprintf("Volume (%d%%)", int(math.Round(state.Volume*100)))

	closest := 0
	for i, level := range VolumeLevels {
		if math.Abs(level-state.Volume) < math.Abs(VolumeLevels[closest]-state.Volume) {
			closest = i
		}
	}
	for i, item := range manager.levelItems {
		item.Checked = i == closest
	}
	manager.refreshMenu()
}

// Status returns the current status label.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
