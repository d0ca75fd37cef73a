package model

import "testing"

func TestNormalizeFallsBackToDefaults(t *testing.T) {
	got := SessionConfig{FocusMinutes: 0, ShortBreakMinutes: -3, LongBreakMinutes: 5000, LongBreakAfter: 0}.Normalize()
	want := SessionConfig{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: MaxSessionMinutes, LongBreakAfter: 4}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestSecondsPerKind(t *testing.T) {
	config := DefaultSessionConfig()
	tests := []struct {
		kind Kind
		want int
	}{
		{KindWork, 1500},
		{KindShortBreak, 300},
		{KindLongBreak, 900},
	}
	for _, tt := range tests {
		if got := config.Seconds(tt.kind); got != tt.want {
			t.Errorf("Seconds(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindWork, KindShortBreak, KindLongBreak} {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var parsed Kind
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if parsed != kind {
			t.Errorf("round trip %s -> %s", kind, parsed)
		}
	}
	if _, err := ParseKind("nap"); err == nil {
		t.Error("ParseKind(nap) should fail")
	}
}

func TestSnapshotProgressAndClock(t *testing.T) {
	snapshot := Snapshot{RemainingSeconds: 1400, TotalSeconds: 1500}
	if got := snapshot.Clock(); got != "23:20" {
		t.Errorf("Clock() = %q, want 23:20", got)
	}
	if got := snapshot.Progress(); got < 0.0666 || got > 0.0667 {
		t.Errorf("Progress() = %v", got)
	}
	if got := (Snapshot{}).Progress(); got != 0 {
		t.Errorf("empty Progress() = %v, want 0", got)
	}
	if got := FormatClock(-5); got != "00:00" {
		t.Errorf("FormatClock(-5) = %q", got)
	}
}
