package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

type memoryStore struct {
	stats   model.Stats
	loadErr error
	saveErr error
	saves   int
}

func (store *memoryStore) LoadStats() (model.Stats, error) {
	return store.stats, store.loadErr
}

func (store *memoryStore) SaveStats(stats model.Stats) error {
	store.saves++
	store.stats = stats
	return store.saveErr
}

func day(year int, month time.Month, dayOfMonth, hour int) time.Time {
	return time.Date(year, month, dayOfMonth, hour, 0, 0, 0, time.UTC)
}

func newTestRecorder(t *testing.T, store Store) *Recorder {
	t.Helper()
	recorder, err := NewRecorder(store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	recorder.SetLocation(time.UTC)
	return recorder
}

func work(at time.Time, minutes int) model.SessionCompleted {
	return model.SessionCompleted{Kind: model.KindWork, Minutes: minutes, Next: model.KindShortBreak, At: at}
}

func TestRecordCountsOnlyWork(t *testing.T) {
	store := &memoryStore{}
	recorder := newTestRecorder(t, store)

	recorder.Record(work(day(2026, 3, 2, 9), 25))
	recorder.Record(model.SessionCompleted{Kind: model.KindShortBreak, Minutes: 5, At: day(2026, 3, 2, 10)})
	recorder.Record(model.SessionCompleted{Kind: model.KindLongBreak, Minutes: 15, At: day(2026, 3, 2, 11)})

	stats := recorder.Stats()
	if stats.TotalSessions != 1 || stats.TotalMinutes != 25 {
		t.Errorf("stats = %+v, want one 25 minute session", stats)
	}
	if stats.DailyData["2026-03-02"] != 1 {
		t.Errorf("DailyData = %v", stats.DailyData)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestRecordSkippedWork(t *testing.T) {
	recorder := newTestRecorder(t, &memoryStore{})
	completed := work(day(2026, 3, 2, 9), 25)
	completed.Skipped = true
	recorder.Record(completed)

	stats := recorder.Stats()
	if stats.TotalSessions != 1 || stats.SkippedSessions != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStreaks(t *testing.T) {
	recorder := newTestRecorder(t, nil)

	recorder.Record(work(day(2026, 3, 1, 9), 25))
	recorder.Record(work(day(2026, 3, 1, 15), 25))
	recorder.Record(work(day(2026, 3, 2, 9), 25))
	recorder.Record(work(day(2026, 3, 3, 9), 25))
	if got := recorder.Stats().CurrentStreak; got != 3 {
		t.Fatalf("CurrentStreak = %d, want 3", got)
	}

	recorder.Record(work(day(2026, 3, 6, 9), 25))
	stats := recorder.Stats()
	if stats.CurrentStreak != 1 || stats.LongestStreak != 3 {
		t.Errorf("after gap: current=%d longest=%d, want 1 and 3", stats.CurrentStreak, stats.LongestStreak)
	}
}

func TestSummary(t *testing.T) {
	recorder := newTestRecorder(t, nil)
	// 2026-03-04 is a Wednesday; its ISO week starts on 2026-03-02.
	recorder.Record(work(day(2026, 2, 27, 9), 25))
	recorder.Record(work(day(2026, 3, 1, 9), 25))
	recorder.Record(work(day(2026, 3, 2, 9), 25))
	recorder.Record(work(day(2026, 3, 4, 9), 25))
	recorder.Record(work(day(2026, 3, 4, 14), 50))

	summary := recorder.Summary(day(2026, 3, 4, 20))
	want := model.Summary{
		Today:         2,
		Week:          3,
		Month:         4,
		Total:         5,
		TotalMinutes:  150,
		CurrentStreak: 1,
		LongestStreak: 2,
	}
	if summary != want {
		t.Errorf("Summary() = %+v, want %+v", summary, want)
	}
}

func TestSummaryStreakLapses(t *testing.T) {
	recorder := newTestRecorder(t, nil)
	recorder.Record(work(day(2026, 3, 1, 9), 25))

	if got := recorder.Summary(day(2026, 3, 2, 9)).CurrentStreak; got != 1 {
		t.Errorf("next day streak = %d, want 1", got)
	}
	if got := recorder.Summary(day(2026, 3, 4, 9)).CurrentStreak; got != 0 {
		t.Errorf("streak after a missed day = %d, want 0", got)
	}
}

func TestNewRecorderLoadError(t *testing.T) {
	store := &memoryStore{loadErr: errors.New("corrupt")}
	recorder, err := NewRecorder(store, zerolog.Nop())
	if err == nil {
		t.Fatal("expected load error")
	}
	if recorder == nil {
		t.Fatal("recorder must be usable after a load error")
	}
	recorder.Record(work(time.Now(), 25))
	if recorder.Stats().TotalSessions != 1 {
		t.Error("recorder did not record after load error")
	}
}

func TestSaveErrorDoesNotLoseHistory(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	recorder := newTestRecorder(t, store)
	recorder.Record(work(day(2026, 3, 2, 9), 25))
	recorder.Record(work(day(2026, 3, 2, 10), 25))

	if got := recorder.Stats().TotalSessions; got != 2 {
		t.Errorf("TotalSessions = %d, want 2", got)
	}
}

func TestStatsReturnsCopy(t *testing.T) {
	recorder := newTestRecorder(t, nil)
	recorder.Record(work(day(2026, 3, 2, 9), 25))

	stats := recorder.Stats()
	stats.DailyData["2026-03-02"] = 99
	if got := recorder.Stats().DailyData["2026-03-02"]; got != 1 {
		t.Errorf("internal DailyData mutated through copy: %d", got)
	}
}
