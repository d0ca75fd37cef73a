package storage

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tymodoro/internal/core/model"
)

const settingsFileName = "settings.yaml"

// ErrInvalidSetting reports a stored value that was replaced by its default.
var ErrInvalidSetting = errors.New("invalid setting")

type yamlSettings struct {
	FocusMinutes      int      `yaml:"focus_minutes"`
	ShortBreakMinutes int      `yaml:"short_break_minutes"`
	LongBreakMinutes  int      `yaml:"long_break_minutes"`
	LongBreakAfter    int      `yaml:"long_break_after"`
	Volume            *float64 `yaml:"volume"`
	MuteStopsVoice    *bool    `yaml:"mute_stops_voice"`
	SoundEnabled      *bool    `yaml:"sound_enabled"`
	LastGenerator     string   `yaml:"last_generator,omitempty"`
	LaunchAtLogin     bool     `yaml:"launch_at_login"`
	IdlePauseMinutes  int      `yaml:"idle_pause_minutes"`
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned. Values out of
// range fall back to their defaults and are reported through the error.
func (store *Store) LoadSettings() (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(store.path(settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	return settings, applyYamlSettings(&settings, fileData)
}

// SaveSettings writes user preferences to YAML.
func (store *Store) SaveSettings(settings model.Settings) error {
	session := settings.Session.Normalize()
	volume := settings.Audio.Volume
	muteStopsVoice := settings.Audio.MuteStopsVoice
	soundEnabled := settings.Audio.SoundEnabled

	fileData := yamlSettings{
		FocusMinutes:      session.FocusMinutes,
		ShortBreakMinutes: session.ShortBreakMinutes,
		LongBreakMinutes:  session.LongBreakMinutes,
		LongBreakAfter:    session.LongBreakAfter,
		Volume:            &volume,
		MuteStopsVoice:    &muteStopsVoice,
		SoundEnabled:      &soundEnabled,
		LastGenerator:     settings.Audio.LastGenerator,
		LaunchAtLogin:     settings.System.LaunchAtLogin,
		IdlePauseMinutes:  settings.System.IdlePauseMinutes,
	}
	return store.writeYAML(settingsFileName, fileData)
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) error {
	var invalid []error
	minutes := func(name string, value int, target *int) {
		switch {
		case value == 0:
		case value >= model.MinSessionMinutes && value <= model.MaxSessionMinutes:
			*target = value
		default:
			invalid = append(invalid, fmt.Errorf("%w: %s=%d", ErrInvalidSetting, name, value))
		}
	}
	minutes("focus_minutes", fileData.FocusMinutes, &settings.Session.FocusMinutes)
	minutes("short_break_minutes", fileData.ShortBreakMinutes, &settings.Session.ShortBreakMinutes)
	minutes("long_break_minutes", fileData.LongBreakMinutes, &settings.Session.LongBreakMinutes)

	switch after := fileData.LongBreakAfter; {
	case after == 0:
	case after >= 1 && after <= model.MaxLongBreakAfter:
		settings.Session.LongBreakAfter = after
	default:
		invalid = append(invalid, fmt.Errorf("%w: long_break_after=%d", ErrInvalidSetting, after))
	}

	if fileData.Volume != nil {
		if *fileData.Volume >= 0 && *fileData.Volume <= 1 {
			settings.Audio.Volume = *fileData.Volume
		} else {
			invalid = append(invalid, fmt.Errorf("%w: volume=%v", ErrInvalidSetting, *fileData.Volume))
		}
	}
	if fileData.MuteStopsVoice != nil {
		settings.Audio.MuteStopsVoice = *fileData.MuteStopsVoice
	}
	if fileData.SoundEnabled != nil {
		settings.Audio.SoundEnabled = *fileData.SoundEnabled
	}
	settings.Audio.LastGenerator = fileData.LastGenerator

	settings.System.LaunchAtLogin = fileData.LaunchAtLogin
	if idle := fileData.IdlePauseMinutes; idle >= 0 && idle <= model.MaxIdlePauseMinutes {
		settings.System.IdlePauseMinutes = idle
	} else {
		invalid = append(invalid, fmt.Errorf("%w: idle_pause_minutes=%d", ErrInvalidSetting, idle))
	}

	return errors.Join(invalid...)
}
