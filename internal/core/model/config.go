package model

const (
	// MinSessionMinutes and MaxSessionMinutes bound every configured duration.
	MinSessionMinutes = 1
	MaxSessionMinutes = 24 * 60

	// MaxLongBreakAfter caps the number of work sessions between long breaks.
	MaxLongBreakAfter = 100

	// MaxIdlePauseMinutes bounds the away time before focus auto-pauses.
	MaxIdlePauseMinutes = 240
)

// SessionConfig contains the durations used by the session state machine.
type SessionConfig struct {
	FocusMinutes      int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakAfter    int
}

// DefaultSessionConfig returns the classic 25/5/15 cadence with a long break every fourth session.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakAfter:    4,
	}
}

// Normalize clamps every field into its supported range.
// Zero or negative values fall back to the defaults.
func (config SessionConfig) Normalize() SessionConfig {
	defaults := DefaultSessionConfig()
	config.FocusMinutes = clampMinutes(config.FocusMinutes, defaults.FocusMinutes)
	config.ShortBreakMinutes = clampMinutes(config.ShortBreakMinutes, defaults.ShortBreakMinutes)
	config.LongBreakMinutes = clampMinutes(config.LongBreakMinutes, defaults.LongBreakMinutes)
	switch {
	case config.LongBreakAfter <= 0:
		config.LongBreakAfter = defaults.LongBreakAfter
	case config.LongBreakAfter > MaxLongBreakAfter:
		config.LongBreakAfter = MaxLongBreakAfter
	}
	return config
}

// Minutes returns the configured minutes for a session kind.
func (config SessionConfig) Minutes(kind Kind) int {
	switch kind {
	case KindShortBreak:
		return config.ShortBreakMinutes
	case KindLongBreak:
		return config.LongBreakMinutes
	default:
		return config.FocusMinutes
	}
}

// Seconds converts the configured minutes for kind into seconds.
func (config SessionConfig) Seconds(kind Kind) int {
	return config.Minutes(kind) * 60
}

// AudioSettings holds ambient sound preferences.
type AudioSettings struct {
	Volume         float64
	MuteStopsVoice bool
	SoundEnabled   bool
	LastGenerator  string
}

// DefaultAudioSettings returns the settings used on first launch.
func DefaultAudioSettings() AudioSettings {
	return AudioSettings{
		Volume:         0.3,
		MuteStopsVoice: true,
		SoundEnabled:   true,
	}
}

// SystemSettings holds desktop integration preferences.
type SystemSettings struct {
	LaunchAtLogin bool
	// IdlePauseMinutes pauses focus after that much inactivity. Zero disables.
	IdlePauseMinutes int
}

// Settings is everything the persistence collaborator stores as "config".
type Settings struct {
	Session SessionConfig
	Audio   AudioSettings
	System  SystemSettings
}

// DefaultSettings returns default settings for the widget.
func DefaultSettings() Settings {
	return Settings{
		Session: DefaultSessionConfig(),
		Audio:   DefaultAudioSettings(),
	}
}

func clampMinutes(value, fallback int) int {
	if value < MinSessionMinutes {
		return fallback
	}
	if value > MaxSessionMinutes {
		return MaxSessionMinutes
	}
	return value
}
