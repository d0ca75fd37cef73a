package preferences

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"tymodoro/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window       fyne.Window
	settings     model.Settings
	onSave       func(model.Settings)
	focus        *widget.Entry
	shortBreak   *widget.Entry
	longBreak    *widget.Entry
	longAfter    *widget.Entry
	volume       *widget.Slider
	volumeLabel  *widget.Label
	muteStops    *widget.Check
	soundEnabled *widget.Check
	idlePause    *widget.Entry
	launch       *widget.Check
	errorLabel   *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("TYMODORO Settings")

	prefs := &Window{
		window:       window,
		settings:     settings,
		onSave:       onSave,
		focus:        widget.NewEntry(),
		shortBreak:   widget.NewEntry(),
		longBreak:    widget.NewEntry(),
		longAfter:    widget.NewEntry(),
		volume:       widget.NewSlider(0, 1),
		volumeLabel:  widget.NewLabel(""),
		muteStops:    widget.NewCheck("Volume at zero stops the ambient sound", nil),
		soundEnabled: widget.NewCheck("Beep and notify when a session ends", nil),
		idlePause:    widget.NewEntry(),
		launch:       widget.NewCheck("Launch at login", nil),
		errorLabel:   widget.NewLabel(""),
	}
	prefs.volume.Step = 0.01
	prefs.volume.OnChanged = func(value float64) {
		prefs.volumeLabel.SetText(fmt.Sprintf("%d%%", int(value*100+0.5)))
	}
	prefs.errorLabel.Wrapping = fyne.TextWrapWord
	prefs.errorLabel.Importance = widget.DangerImportance
	prefs.errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Sessions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.New(layout.NewFormLayout(),
			widget.NewLabel("Deep focus"), container.NewBorder(nil, nil, nil, widget.NewLabel("min"), prefs.focus),
			widget.NewLabel("Quick recharge"), container.NewBorder(nil, nil, nil, widget.NewLabel("min"), prefs.shortBreak),
			widget.NewLabel("Extended break"), container.NewBorder(nil, nil, nil, widget.NewLabel("min"), prefs.longBreak),
			widget.NewLabel("Long break every"), container.NewBorder(nil, nil, nil, widget.NewLabel("sessions"), prefs.longAfter),
		),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), prefs.volumeLabel, prefs.volume),
		prefs.muteStops,
		prefs.soundEnabled,
		widget.NewLabelWithStyle("System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.New(layout.NewFormLayout(),
			widget.NewLabel("Pause focus when away"), container.NewBorder(nil, nil, nil, widget.NewLabel("min (0 = off)"), prefs.idlePause),
		),
		prefs.launch,
		prefs.errorLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(440, 480))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	form := FormFromSettings(settings)
	prefs.focus.SetText(form.FocusMinutes)
	prefs.shortBreak.SetText(form.ShortBreakMinutes)
	prefs.longBreak.SetText(form.LongBreakMinutes)
	prefs.longAfter.SetText(form.LongBreakAfter)
	prefs.volume.SetValue(form.Volume)
	prefs.volumeLabel.SetText(fmt.Sprintf("%d%%", int(form.Volume*100+0.5)))
	prefs.muteStops.SetChecked(form.MuteStopsVoice)
	prefs.soundEnabled.SetChecked(form.SoundEnabled)
	prefs.idlePause.SetText(form.IdlePauseMinutes)
	prefs.launch.SetChecked(form.LaunchAtLogin)
	prefs.errorLabel.Hide()
}

func (prefs *Window) form() Form {
	return Form{
		FocusMinutes:      prefs.focus.Text,
		ShortBreakMinutes: prefs.shortBreak.Text,
		LongBreakMinutes:  prefs.longBreak.Text,
		LongBreakAfter:    prefs.longAfter.Text,
		Volume:            prefs.volume.Value,
		MuteStopsVoice:    prefs.muteStops.Checked,
		SoundEnabled:      prefs.soundEnabled.Checked,
		IdlePauseMinutes:  prefs.idlePause.Text,
		LaunchAtLogin:     prefs.launch.Checked,
	}
}

func (prefs *Window) handleSave() {
	settings, err := prefs.form().Apply(prefs.settings)
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		prefs.errorLabel.Show()
		return
	}

	prefs.settings = settings
	prefs.errorLabel.Hide()
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
