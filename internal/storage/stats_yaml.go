package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tymodoro/internal/core/model"
)

const statsFileName = "stats.yaml"

type yamlStats struct {
	TotalSessions   int            `yaml:"total_sessions"`
	TotalMinutes    int            `yaml:"total_minutes"`
	SkippedSessions int            `yaml:"skipped_sessions"`
	CurrentStreak   int            `yaml:"current_streak"`
	LongestStreak   int            `yaml:"longest_streak"`
	LastSessionDay  string         `yaml:"last_session_day,omitempty"`
	DailyData       map[string]int `yaml:"daily_data"`
}

// LoadStats reads focus history. A missing file yields empty history.
// Entries with malformed day keys or negative counts are dropped.
func (store *Store) LoadStats() (model.Stats, error) {
	stats := model.Stats{DailyData: map[string]int{}}

	rawData, err := os.ReadFile(store.path(statsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("read stats file: %w", err)
	}

	var fileData yamlStats
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return stats, fmt.Errorf("parse stats yaml: %w", err)
	}

	stats.TotalSessions = max(fileData.TotalSessions, 0)
	stats.TotalMinutes = max(fileData.TotalMinutes, 0)
	stats.SkippedSessions = max(fileData.SkippedSessions, 0)
	stats.CurrentStreak = max(fileData.CurrentStreak, 0)
	stats.LongestStreak = max(fileData.LongestStreak, stats.CurrentStreak)
	if validDay(fileData.LastSessionDay) {
		stats.LastSessionDay = fileData.LastSessionDay
	}

	var dropped int
	for day, count := range fileData.DailyData {
		if !validDay(day) || count < 0 {
			dropped++
			continue
		}
		stats.DailyData[day] = count
	}
	if dropped > 0 {
		return stats, fmt.Errorf("%w: %d daily entries dropped", ErrInvalidSetting, dropped)
	}
	return stats, nil
}

// SaveStats writes focus history to YAML.
func (store *Store) SaveStats(stats model.Stats) error {
	fileData := yamlStats{
		TotalSessions:   stats.TotalSessions,
		TotalMinutes:    stats.TotalMinutes,
		SkippedSessions: stats.SkippedSessions,
		CurrentStreak:   stats.CurrentStreak,
		LongestStreak:   stats.LongestStreak,
		LastSessionDay:  stats.LastSessionDay,
		DailyData:       stats.DailyData,
	}
	return store.writeYAML(statsFileName, fileData)
}

func validDay(day string) bool {
	_, err := time.Parse(model.DayLayout, day)
	return err == nil
}
