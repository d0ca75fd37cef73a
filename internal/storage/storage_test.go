package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tymodoro/internal/core/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	settings, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings != model.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "nested"))
	want := model.Settings{
		Session: model.SessionConfig{FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, LongBreakAfter: 3},
		Audio:   model.AudioSettings{Volume: 0, MuteStopsVoice: false, SoundEnabled: false, LastGenerator: "ocean"},
		System:  model.SystemSettings{LaunchAtLogin: true, IdlePauseMinutes: 10},
	}

	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	got, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if got != want {
		t.Errorf("LoadSettings() = %+v, want %+v", got, want)
	}
}

func TestLoadSettingsOutOfRangeFallsBackPerField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, settingsFileName, strings.Join([]string{
		"focus_minutes: 5000",
		"short_break_minutes: 7",
		"long_break_minutes: -3",
		"long_break_after: 500",
		"volume: 1.5",
		"sound_enabled: false",
		"idle_pause_minutes: 999",
	}, "\n"))

	settings, err := NewStoreAt(dir).LoadSettings()
	if !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("LoadSettings() error = %v, want ErrInvalidSetting", err)
	}
	defaults := model.DefaultSettings()
	if settings.Session.FocusMinutes != defaults.Session.FocusMinutes {
		t.Errorf("FocusMinutes = %d, want default", settings.Session.FocusMinutes)
	}
	if settings.Session.ShortBreakMinutes != 7 {
		t.Errorf("ShortBreakMinutes = %d, want 7", settings.Session.ShortBreakMinutes)
	}
	if settings.Session.LongBreakMinutes != defaults.Session.LongBreakMinutes {
		t.Errorf("LongBreakMinutes = %d, want default", settings.Session.LongBreakMinutes)
	}
	if settings.Session.LongBreakAfter != defaults.Session.LongBreakAfter {
		t.Errorf("LongBreakAfter = %d, want default", settings.Session.LongBreakAfter)
	}
	if settings.Audio.Volume != defaults.Audio.Volume {
		t.Errorf("Volume = %v, want default", settings.Audio.Volume)
	}
	if settings.Audio.SoundEnabled {
		t.Error("SoundEnabled should follow the file")
	}
	if !settings.Audio.MuteStopsVoice {
		t.Error("absent mute_stops_voice should keep the default")
	}
	if settings.System.IdlePauseMinutes != 0 {
		t.Errorf("IdlePauseMinutes = %d, want default", settings.System.IdlePauseMinutes)
	}
}

func TestLoadSettingsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, settingsFileName, "focus_minutes: [oops")

	settings, err := NewStoreAt(dir).LoadSettings()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if settings != model.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults on parse error", settings)
	}
}

func TestStatsRoundTrip(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	want := model.Stats{
		TotalSessions:   7,
		TotalMinutes:    175,
		SkippedSessions: 1,
		CurrentStreak:   2,
		LongestStreak:   4,
		LastSessionDay:  "2026-03-04",
		DailyData:       map[string]int{"2026-03-03": 3, "2026-03-04": 4},
	}
	if err := store.SaveStats(want); err != nil {
		t.Fatalf("SaveStats() error = %v", err)
	}

	got, err := store.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats() error = %v", err)
	}
	if got.TotalSessions != 7 || got.TotalMinutes != 175 || got.SkippedSessions != 1 ||
		got.CurrentStreak != 2 || got.LongestStreak != 4 || got.LastSessionDay != "2026-03-04" {
		t.Errorf("LoadStats() = %+v", got)
	}
	if len(got.DailyData) != 2 || got.DailyData["2026-03-04"] != 4 {
		t.Errorf("DailyData = %v", got.DailyData)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), statsFileName+".tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file left behind")
	}
}

func TestLoadStatsMissingFile(t *testing.T) {
	stats, err := NewStoreAt(t.TempDir()).LoadStats()
	if err != nil {
		t.Fatalf("LoadStats() error = %v", err)
	}
	if stats.DailyData == nil || stats.TotalSessions != 0 {
		t.Errorf("stats = %+v, want empty history with a map", stats)
	}
}

func TestLoadStatsDropsMalformedDays(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, statsFileName, strings.Join([]string{
		"total_sessions: 3",
		"daily_data:",
		"  2026-03-04: 2",
		"  Wed Mar 04 2026: 1",
		"  2026-03-05: -1",
	}, "\n"))

	stats, err := NewStoreAt(dir).LoadStats()
	if !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("LoadStats() error = %v", err)
	}
	if len(stats.DailyData) != 1 || stats.DailyData["2026-03-04"] != 2 {
		t.Errorf("DailyData = %v", stats.DailyData)
	}
	if stats.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d", stats.TotalSessions)
	}
}
