package floating

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tymodoro/internal/core/model"
	"tymodoro/internal/surface"
)

// Hub is the part of surface.Hub the floating window talks to.
type Hub interface {
	Attach(surface.Surface)
	Detach(id string)
	Request(surface.CommandMessage) bool
}

// Config defines window visuals.
type Config struct {
	Opacity uint8
}

// Window is a compact always-available timer display. It mirrors the primary
// surface and can only ask for toggle or skip.
type Window struct {
	id            string
	hub           Hub
	window        fyne.Window
	config        Config
	background    *canvas.Rectangle
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	timerLabel    *canvas.Text
	progress      *widget.ProgressBar
	toggleButton  *widget.Button
	skipButton    *widget.Button
	visible       atomic.Bool
	closed        atomic.Bool
}

const (
	windowWidth  = float32(280)
	windowHeight = float32(120)
)

var (
	workColor  = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	breakColor = color.NRGBA{R: 96, G: 196, B: 140, A: 255}
	textColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the window hidden. Call Show to attach it to hub.
func New(app fyne.App, hub Hub, config Config) *Window {
	window := app.NewWindow("TYMODORO")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{A: config.Opacity})

	titleLabel := canvas.NewText(model.KindWork.Label(), textColor)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 16

	subtitleLabel := canvas.NewText("Paused", textColor)
	subtitleLabel.TextSize = 12

	timerLabel := canvas.NewText("--:--", workColor)
	timerLabel.TextStyle = fyne.TextStyle{Monospace: true}
	timerLabel.TextSize = 28

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	floating := &Window{
		id:            "floating:" + surface.NewSurfaceID(),
		hub:           hub,
		window:        window,
		config:        config,
		background:    background,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		timerLabel:    timerLabel,
		progress:      progress,
	}
	floating.toggleButton = widget.NewButton("Start", func() { floating.request(surface.CommandToggleRun) })
	floating.skipButton = widget.NewButton("Skip", func() { floating.request(surface.CommandSkip) })

	left := container.New(&leftPanelLayout{}, titleLabel, subtitleLabel, progress, timerLabel)
	right := container.New(&buttonColumnLayout{}, floating.toggleButton, floating.skipButton)
	content := container.NewBorder(nil, nil, nil, right, left)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.SetCloseIntercept(floating.Hide)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	floating.applyNativeOpacity(config.Opacity)

	return floating
}

// ID implements surface.Surface.
func (floating *Window) ID() string { return floating.id }

// Alive implements surface.Surface. A hidden window is not alive.
func (floating *Window) Alive() bool {
	return floating.visible.Load() && !floating.closed.Load()
}

// Deliver implements surface.Surface. Safe from any goroutine.
func (floating *Window) Deliver(message surface.Message) {
	snapshotMessage, ok := message.(surface.SnapshotMessage)
	if !ok {
		return
	}
	fyne.Do(func() {
		floating.applySnapshotUnsafe(snapshotMessage.Snapshot)
	})
}

// Show displays the window and attaches it to the hub, which pushes the
// latest snapshot immediately.
func (floating *Window) Show() {
	if floating.closed.Load() {
		return
	}
	floating.visible.Store(true)
	floating.window.Show()
	floating.hub.Attach(floating)
}

// Hide hides the window and detaches it.
func (floating *Window) Hide() {
	floating.visible.Store(false)
	floating.hub.Detach(floating.id)
	floating.window.Hide()
}

// Toggle shows a hidden window or hides a visible one.
func (floating *Window) Toggle() {
	if floating.visible.Load() {
		floating.Hide()
		return
	}
	floating.Show()
}

// Close destroys the window. It cannot be shown again.
func (floating *Window) Close() {
	if floating.closed.Swap(true) {
		return
	}
	floating.visible.Store(false)
	floating.hub.Detach(floating.id)
	floating.window.Close()
}

// UpdateConfig updates window visuals.
func (floating *Window) UpdateConfig(config Config) {
	floating.config = config
	floating.background.FillColor = color.NRGBA{A: config.Opacity}
	canvas.Refresh(floating.background)
	floating.applyNativeOpacity(config.Opacity)
}

func (floating *Window) request(command surface.Command) {
	floating.hub.Request(surface.CommandMessage{Command: command, Source: floating.id})
}

func (floating *Window) applySnapshotUnsafe(snapshot model.Snapshot) {
	floating.titleLabel.Text = snapshot.Kind.Label()
	floating.titleLabel.Refresh()

	state := "Paused"
	toggle := "Start"
	if snapshot.Running {
		state = "Running"
		toggle = "Pause"
	}
	floating.subtitleLabel.Text = fmt.Sprintf("%s · session %d", state, snapshot.CompletedWork+1)
	floating.subtitleLabel.Refresh()
	floating.toggleButton.SetText(toggle)

	floating.timerLabel.Text = snapshot.Clock()
	floating.timerLabel.Color = workColor
	if snapshot.Kind.IsBreak() {
		floating.timerLabel.Color = breakColor
	}
	floating.timerLabel.Refresh()

	floating.progress.SetValue(snapshot.Progress())
	floating.window.SetTitle(snapshot.Clock() + " · " + snapshot.Kind.Label())
}

type buttonColumnLayout struct{}

func (layout *buttonColumnLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	top := objects[0]
	bottom := objects[1]

	height := size.Height / 2
	topSize := top.MinSize()
	if topSize.Height > height {
		height = topSize.Height
	}
	top.Move(fyne.NewPos(0, 0))
	top.Resize(fyne.NewSize(size.Width, height-2))

	bottomY := height + 2
	bottomHeight := size.Height - bottomY
	if bottomHeight < bottom.MinSize().Height {
		bottomHeight = bottom.MinSize().Height
	}
	bottom.Move(fyne.NewPos(0, bottomY))
	bottom.Resize(fyne.NewSize(size.Width, bottomHeight))
}

func (layout *buttonColumnLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	topMin := objects[0].MinSize()
	bottomMin := objects[1].MinSize()
	width := topMin.Width
	if bottomMin.Width > width {
		width = bottomMin.Width
	}
	return fyne.NewSize(width*1.2, topMin.Height+bottomMin.Height+4)
}

type leftPanelLayout struct{}

func (layout *leftPanelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	title := objects[0]
	subtitle := objects[1]
	progress := objects[2]
	timer := objects[3]

	pad := size.Height * 0.05
	availableWidth := size.Width - pad*2
	if availableWidth < 0 {
		availableWidth = 0
	}

	titleSize := title.MinSize()
	title.Move(fyne.NewPos(pad, pad))
	title.Resize(fyne.NewSize(availableWidth, titleSize.Height))

	subtitleSize := subtitle.MinSize()
	subtitleY := pad + titleSize.Height + 2
	subtitle.Move(fyne.NewPos(pad, subtitleY))
	subtitle.Resize(fyne.NewSize(availableWidth, subtitleSize.Height))

	timerSize := timer.MinSize()
	timerY := subtitleY + subtitleSize.Height + 4
	timer.Move(fyne.NewPos(pad, timerY))
	timer.Resize(timerSize)

	progressHeight := progress.MinSize().Height / 2
	progressY := size.Height - pad - progressHeight
	if progressY < timerY+timerSize.Height {
		progressY = timerY + timerSize.Height
	}
	progress.Move(fyne.NewPos(pad, progressY))
	progress.Resize(fyne.NewSize(availableWidth, progressHeight))
}

func (layout *leftPanelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	titleSize := objects[0].MinSize()
	subtitleSize := objects[1].MinSize()
	progressSize := objects[2].MinSize()
	timerSize := objects[3].MinSize()

	width := titleSize.Width
	if subtitleSize.Width > width {
		width = subtitleSize.Width
	}
	if timerSize.Width > width {
		width = timerSize.Width
	}
	height := titleSize.Height + subtitleSize.Height + timerSize.Height + progressSize.Height/2 + 12
	return fyne.NewSize(width+20, height)
}
