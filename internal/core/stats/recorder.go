package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

// Store persists Stats.
type Store interface {
	LoadStats() (model.Stats, error)
	SaveStats(model.Stats) error
}

// Recorder accumulates focus history from completed sessions.
type Recorder struct {
	mu       sync.Mutex
	store    Store
	logger   zerolog.Logger
	location *time.Location
	stats    model.Stats
}

// NewRecorder loads existing history from store. A load error is returned
// alongside a usable Recorder that starts from empty history.
func NewRecorder(store Store, logger zerolog.Logger) (*Recorder, error) {
	recorder := &Recorder{
		store:    store,
		logger:   logger,
		location: time.Local,
	}
	if store == nil {
		recorder.stats = emptyStats()
		return recorder, nil
	}

	loaded, err := store.LoadStats()
	if loaded.DailyData == nil {
		loaded.DailyData = map[string]int{}
	}
	recorder.stats = loaded
	if err != nil {
		return recorder, fmt.Errorf("load stats: %w", err)
	}
	return recorder, nil
}

// SetLocation changes the time zone used to bucket sessions into days.
func (recorder *Recorder) SetLocation(location *time.Location) {
	if location == nil {
		return
	}
	recorder.mu.Lock()
	recorder.location = location
	recorder.mu.Unlock()
}

// Record counts a completed work session. Breaks are ignored.
func (recorder *Recorder) Record(completed model.SessionCompleted) {
	if completed.Kind != model.KindWork {
		return
	}

	recorder.mu.Lock()
	at := completed.At
	if at.IsZero() {
		at = time.Now()
	}
	day := at.In(recorder.location).Format(model.DayLayout)

	recorder.stats.TotalSessions++
	recorder.stats.TotalMinutes += completed.Minutes
	if completed.Skipped {
		recorder.stats.SkippedSessions++
	}
	recorder.stats.DailyData[day]++
	recorder.updateStreakLocked(day)
	snapshot := cloneStats(recorder.stats)
	recorder.mu.Unlock()

	recorder.logger.Debug().
		Str("day", day).
		Int("minutes", completed.Minutes).
		Bool("skipped", completed.Skipped).
		Int("total_sessions", snapshot.TotalSessions).
		Msg("recorded work session")

	if recorder.store == nil {
		return
	}
	if err := recorder.store.SaveStats(snapshot); err != nil {
		recorder.logger.Warn().Err(err).Msg("save stats")
	}
}

// Stats returns a copy of the accumulated history.
func (recorder *Recorder) Stats() model.Stats {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return cloneStats(recorder.stats)
}

// Summary derives period totals relative to now.
// Week follows ISO weeks (Monday first).
func (recorder *Recorder) Summary(now time.Time) model.Summary {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	now = now.In(recorder.location)
	today := now.Format(model.DayLayout)
	year, week := now.ISOWeek()

	summary := model.Summary{
		Total:         recorder.stats.TotalSessions,
		TotalMinutes:  recorder.stats.TotalMinutes,
		CurrentStreak: recorder.currentStreakLocked(now),
		LongestStreak: recorder.stats.LongestStreak,
	}
	for key, count := range recorder.stats.DailyData {
		day, err := time.ParseInLocation(model.DayLayout, key, recorder.location)
		if err != nil {
			continue
		}
		if key == today {
			summary.Today += count
		}
		if dayYear, dayWeek := day.ISOWeek(); dayYear == year && dayWeek == week {
			summary.Week += count
		}
		if day.Year() == now.Year() && day.Month() == now.Month() {
			summary.Month += count
		}
	}
	return summary
}

func (recorder *Recorder) updateStreakLocked(day string) {
	last := recorder.stats.LastSessionDay
	switch {
	case last == day:
		if recorder.stats.CurrentStreak == 0 {
			recorder.stats.CurrentStreak = 1
		}
	case last != "" && previousDay(day) == last:
		recorder.stats.CurrentStreak++
	default:
		recorder.stats.CurrentStreak = 1
	}
	recorder.stats.LastSessionDay = day
	if recorder.stats.CurrentStreak > recorder.stats.LongestStreak {
		recorder.stats.LongestStreak = recorder.stats.CurrentStreak
	}
}

// currentStreakLocked reports zero once a full day passed without a session.
func (recorder *Recorder) currentStreakLocked(now time.Time) int {
	last := recorder.stats.LastSessionDay
	today := now.Format(model.DayLayout)
	if last == today || last == previousDay(today) {
		return recorder.stats.CurrentStreak
	}
	return 0
}

func previousDay(day string) string {
	parsed, err := time.Parse(model.DayLayout, day)
	if err != nil {
		return ""
	}
	return parsed.AddDate(0, 0, -1).Format(model.DayLayout)
}

func emptyStats() model.Stats {
	return model.Stats{DailyData: map[string]int{}}
}

func cloneStats(stats model.Stats) model.Stats {
	clone := stats
	clone.DailyData = make(map[string]int, len(stats.DailyData))
	for day, count := range stats.DailyData {
		clone.DailyData[day] = count
	}
	return clone
}
