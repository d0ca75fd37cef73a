package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tymodoro/internal/core/model"
)

// Form holds the editable values as the widgets present them.
type Form struct {
	FocusMinutes      string
	ShortBreakMinutes string
	LongBreakMinutes  string
	LongBreakAfter    string
	Volume            float64
	MuteStopsVoice    bool
	SoundEnabled      bool
	IdlePauseMinutes  string
	LaunchAtLogin     bool
}

// FormFromSettings fills a Form from settings.
func FormFromSettings(settings model.Settings) Form {
	return Form{
		FocusMinutes:      strconv.Itoa(settings.Session.FocusMinutes),
		ShortBreakMinutes: strconv.Itoa(settings.Session.ShortBreakMinutes),
		LongBreakMinutes:  strconv.Itoa(settings.Session.LongBreakMinutes),
		LongBreakAfter:    strconv.Itoa(settings.Session.LongBreakAfter),
		Volume:            settings.Audio.Volume,
		MuteStopsVoice:    settings.Audio.MuteStopsVoice,
		SoundEnabled:      settings.Audio.SoundEnabled,
		IdlePauseMinutes:  strconv.Itoa(settings.System.IdlePauseMinutes),
		LaunchAtLogin:     settings.System.LaunchAtLogin,
	}
}

// Apply returns base updated with the form values.
// Invalid fields keep their value from base and are reported together.
func (form Form) Apply(base model.Settings) (model.Settings, error) {
	settings := base
	var invalid []error

	field := func(name, text string, lo, hi int, target *int) {
		value, ok := parseInRange(text, lo, hi)
		if !ok {
			invalid = append(invalid, fmt.Errorf("%s must be a whole number from %d to %d", name, lo, hi))
			return
		}
		*target = value
	}
	field("Focus", form.FocusMinutes, model.MinSessionMinutes, model.MaxSessionMinutes, &settings.Session.FocusMinutes)
	field("Short break", form.ShortBreakMinutes, model.MinSessionMinutes, model.MaxSessionMinutes, &settings.Session.ShortBreakMinutes)
	field("Long break", form.LongBreakMinutes, model.MinSessionMinutes, model.MaxSessionMinutes, &settings.Session.LongBreakMinutes)
	field("Long break after", form.LongBreakAfter, 1, model.MaxLongBreakAfter, &settings.Session.LongBreakAfter)
	field("Pause when away", form.IdlePauseMinutes, 0, model.MaxIdlePauseMinutes, &settings.System.IdlePauseMinutes)

	settings.Audio.Volume = min(max(form.Volume, 0), 1)
	settings.Audio.MuteStopsVoice = form.MuteStopsVoice
	settings.Audio.SoundEnabled = form.SoundEnabled
	settings.System.LaunchAtLogin = form.LaunchAtLogin

	return settings, errors.Join(invalid...)
}

func parseInRange(value string, lo, hi int) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < lo || parsed > hi {
		return 0, false
	}
	return parsed, true
}
