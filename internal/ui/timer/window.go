package timer

import (
	"fmt"
	"image/color"
	"math"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tymodoro/internal/audio"
	"tymodoro/internal/audio/synth"
	"tymodoro/internal/core/model"
	"tymodoro/internal/surface"
)

// Controls defines the actions the primary window can trigger.
type Controls struct {
	OnToggle      func()
	OnSkip        func()
	OnReset       func()
	OnSelectKind  func(model.Kind)
	OnSelectSound func(synth.Generator)
	OnStopSound   func()
	OnVolume      func(float64)
}

const soundOff = "Off"

var (
	workColor  = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	breakColor = color.NRGBA{R: 96, G: 196, B: 140, A: 255}
)

// Window is the primary surface. It owns the skip confirmation prompt.
type Window struct {
	id           string
	window       fyne.Window
	controls     Controls
	kindLabel    *canvas.Text
	clockLabel   *canvas.Text
	sessionLabel *widget.Label
	progress     *widget.ProgressBar
	toggleButton *widget.Button
	skipButton   *widget.Button
	kindSelect   *widget.RadioGroup
	soundSelect  *widget.Select
	volume       *widget.Slider
	todayLabel   *widget.Label
	weekLabel    *widget.Label
	streakLabel  *widget.Label
	summary      model.Summary
	// updating suppresses widget callbacks while state is pushed in.
	updating bool
	closed   atomic.Bool
}

// New builds the primary window. It is not shown.
func New(app fyne.App, controls Controls) *Window {
	window := app.NewWindow("TYMODORO")
	primary := &Window{
		id:           "primary:" + surface.NewSurfaceID(),
		window:       window,
		controls:     controls,
		kindLabel:    canvas.NewText(model.KindWork.Label(), theme.Color(theme.ColorNameForeground)),
		clockLabel:   canvas.NewText("--:--", workColor),
		sessionLabel: widget.NewLabel(""),
		progress:     widget.NewProgressBar(),
		todayLabel:   widget.NewLabel(""),
		weekLabel:    widget.NewLabel(""),
		streakLabel:  widget.NewLabel(""),
	}
	primary.kindLabel.Alignment = fyne.TextAlignCenter
	primary.kindLabel.TextSize = 18
	primary.kindLabel.TextStyle = fyne.TextStyle{Bold: true}
	primary.clockLabel.Alignment = fyne.TextAlignCenter
	primary.clockLabel.TextSize = 64
	primary.clockLabel.TextStyle = fyne.TextStyle{Monospace: true}
	primary.sessionLabel.Alignment = fyne.TextAlignCenter
	primary.progress.TextFormatter = func() string { return "" }

	primary.toggleButton = widget.NewButton("Start", func() { call(primary.controls.OnToggle) })
	primary.toggleButton.Importance = widget.HighImportance
	primary.skipButton = widget.NewButton("Skip", func() { call(primary.controls.OnSkip) })
	reset := widget.NewButton("Reset", func() { call(primary.controls.OnReset) })

	kinds := []model.Kind{model.KindWork, model.KindShortBreak, model.KindLongBreak}
	var kindLabels []string
	for _, kind := range kinds {
		kindLabels = append(kindLabels, kind.Label())
	}
	primary.kindSelect = widget.NewRadioGroup(kindLabels, func(label string) {
		if primary.updating || primary.controls.OnSelectKind == nil {
			return
		}
		for _, kind := range kinds {
			if kind.Label() == label {
				primary.controls.OnSelectKind(kind)
			}
		}
	})
	primary.kindSelect.Horizontal = true
	primary.kindSelect.Required = true

	soundOptions := []string{soundOff}
	for _, generator := range synth.Generators() {
		soundOptions = append(soundOptions, generator.Label())
	}
	primary.soundSelect = widget.NewSelect(soundOptions, primary.handleSound)

	primary.volume = widget.NewSlider(0, 1)
	primary.volume.Step = 0.01
	primary.volume.OnChangeEnded = func(value float64) {
		if !primary.updating && primary.controls.OnVolume != nil {
			primary.controls.OnVolume(value)
		}
	}

	timerCard := container.NewVBox(
		primary.kindLabel,
		primary.clockLabel,
		primary.progress,
		primary.sessionLabel,
		container.NewGridWithColumns(3, primary.toggleButton, primary.skipButton, reset),
		container.NewCenter(primary.kindSelect),
	)
	soundCard := widget.NewCard("Ambient sound", "", container.NewVBox(
		primary.soundSelect,
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), nil, primary.volume),
	))
	statsCard := widget.NewCard("Progress", "", container.NewGridWithColumns(3,
		primary.todayLabel, primary.weekLabel, primary.streakLabel,
	))

	window.SetContent(container.NewPadded(container.NewVBox(timerCard, layout.NewSpacer(), soundCard, statsCard)))
	window.SetCloseIntercept(window.Hide)
	window.Canvas().SetOnTypedKey(primary.handleKey)
	window.Resize(fyne.NewSize(420, 560))

	primary.SetSummary(model.Summary{})
	primary.SetAudioState(audio.State{})
	return primary
}

// handleKey binds Space to start/pause and R to reset while no widget has focus.
func (primary *Window) handleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeySpace:
		call(primary.controls.OnToggle)
	case fyne.KeyR:
		call(primary.controls.OnReset)
	}
}

// Window exposes the fyne window so dialogs can be parented to it.
func (primary *Window) Window() fyne.Window { return primary.window }

// Show displays the window.
func (primary *Window) Show() {
	primary.window.Show()
	primary.window.RequestFocus()
}

// ID implements surface.Surface.
func (primary *Window) ID() string { return primary.id }

// Alive implements surface.Surface. The primary window stays attached while
// hidden so it is current when reopened.
func (primary *Window) Alive() bool { return !primary.closed.Load() }

// Deliver implements surface.Surface.
func (primary *Window) Deliver(message surface.Message) {
	snapshotMessage, ok := message.(surface.SnapshotMessage)
	if !ok {
		return
	}
	fyne.Do(func() {
		primary.SetSnapshot(snapshotMessage.Snapshot)
	})
}

// Close marks the surface dead and closes the window.
func (primary *Window) Close() {
	if primary.closed.Swap(true) {
		return
	}
	primary.window.Close()
}

// Confirm asks before skipping a partly done work session. It matches
// surface.ConfirmFunc and may be called from any goroutine.
func (primary *Window) Confirm(percent float64, confirm func()) {
	message := fmt.Sprintf("You are only %d%% through this focus session.\nSkip it anyway?", int(math.Round(percent)))
	fyne.Do(func() {
		primary.Show()
		dialog.ShowConfirm("Skip session?", message, func(ok bool) {
			if ok {
				confirm()
			}
		}, primary.window)
	})
}

// ShowStatistics opens a dialog with the full summary.
func (primary *Window) ShowStatistics() {
	summary := primary.summary
	content := container.New(layout.NewFormLayout(),
		widget.NewLabel("Today"), widget.NewLabel(fmt.Sprint(summary.Today)),
		widget.NewLabel("This week"), widget.NewLabel(fmt.Sprint(summary.Week)),
		widget.NewLabel("This month"), widget.NewLabel(fmt.Sprint(summary.Month)),
		widget.NewLabel("All time"), widget.NewLabel(fmt.Sprintf("%d sessions, %s", summary.Total, FormatMinutes(summary.TotalMinutes))),
		widget.NewLabel("Current streak"), widget.NewLabel(days(summary.CurrentStreak)),
		widget.NewLabel("Longest streak"), widget.NewLabel(days(summary.LongestStreak)),
	)
	primary.Show()
	dialog.ShowCustom("Statistics", "Close", content, primary.window)
}

// SetSnapshot renders snapshot. Must run on the fyne goroutine.
func (primary *Window) SetSnapshot(snapshot model.Snapshot) {
	primary.updating = true
	defer func() { primary.updating = false }()

	primary.kindLabel.Text = snapshot.Kind.Label()
	primary.kindLabel.Refresh()
	primary.clockLabel.Text = snapshot.Clock()
	primary.clockLabel.Color = workColor
	if snapshot.Kind.IsBreak() {
		primary.clockLabel.Color = breakColor
	}
	primary.clockLabel.Refresh()
	primary.progress.SetValue(snapshot.Progress())
	primary.sessionLabel.SetText(fmt.Sprintf("%d focus sessions completed", snapshot.CompletedWork))

	if snapshot.Running {
		primary.toggleButton.SetText("Pause")
	} else {
		primary.toggleButton.SetText("Start")
	}
	primary.kindSelect.SetSelected(snapshot.Kind.Label())
	primary.window.SetTitle(snapshot.Clock() + " · TYMODORO")
}

// SetAudioState reflects the engine state. Must run on the fyne goroutine.
func (primary *Window) SetAudioState(state audio.State) {
	primary.updating = true
	defer func() { primary.updating = false }()

	if state.Active {
		primary.soundSelect.SetSelected(state.Generator.Label())
	} else {
		primary.soundSelect.SetSelected(soundOff)
	}
	primary.volume.SetValue(state.Volume)
}

// SetSummary updates the progress card. Must run on the fyne goroutine.
func (primary *Window) SetSummary(summary model.Summary) {
	primary.summary = summary
	primary.todayLabel.SetText(fmt.Sprintf("Today\n%d", summary.Today))
	primary.weekLabel.SetText(fmt.Sprintf("Week\n%d", summary.Week))
	primary.streakLabel.SetText(fmt.Sprintf("Streak\n%s", days(summary.CurrentStreak)))
}

func (primary *Window) handleSound(label string) {
	if primary.updating {
		return
	}
	if label == soundOff {
		call(primary.controls.OnStopSound)
		return
	}
	for _, generator := range synth.Generators() {
		if generator.Label() == label && primary.controls.OnSelectSound != nil {
			primary.controls.OnSelectSound(generator)
			return
		}
	}
}

// FormatMinutes renders minutes as "3h 05m" or "45m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
