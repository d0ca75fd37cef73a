package model

import (
	"fmt"
	"time"
)

// Kind identifies the type of a timed session.
type Kind int

const (
	KindWork Kind = iota
	KindShortBreak
	KindLongBreak
)

// String returns the stable identifier used in persisted data and on the wire.
func (kind Kind) String() string {
	switch kind {
	case KindWork:
		return "work"
	case KindShortBreak:
		return "short_break"
	case KindLongBreak:
		return "long_break"
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}

// Label returns a human readable name for display surfaces.
func (kind Kind) Label() string {
	switch kind {
	case KindShortBreak:
		return "Quick Recharge"
	case KindLongBreak:
		return "Extended Break"
	default:
		return "Deep Focus"
	}
}

// IsBreak reports whether kind is one of the break kinds.
func (kind Kind) IsBreak() bool {
	return kind == KindShortBreak || kind == KindLongBreak
}

// ParseKind converts an identifier produced by String back into a Kind.
func ParseKind(value string) (Kind, error) {
	switch value {
	case "work":
		return KindWork, nil
	case "short_break":
		return KindShortBreak, nil
	case "long_break":
		return KindLongBreak, nil
	default:
		return KindWork, fmt.Errorf("unknown session kind %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (kind Kind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (kind *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*kind = parsed
	return nil
}

// Snapshot is a read-only copy of timer state pushed to display surfaces.
type Snapshot struct {
	SessionID        string    `json:"session_id"`
	Kind             Kind      `json:"kind"`
	RemainingSeconds int       `json:"remaining_seconds"`
	TotalSeconds     int       `json:"total_seconds"`
	Running          bool      `json:"running"`
	CompletedWork    int       `json:"completed_work"`
	At               time.Time `json:"at"`
}

// Progress returns the completed fraction of the session in [0,1].
func (snapshot Snapshot) Progress() float64 {
	if snapshot.TotalSeconds <= 0 {
		return 0
	}
	progress := float64(snapshot.TotalSeconds-snapshot.RemainingSeconds) / float64(snapshot.TotalSeconds)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Clock formats the remaining time as MM:SS.
func (snapshot Snapshot) Clock() string {
	return FormatClock(snapshot.RemainingSeconds)
}

// SessionCompleted is emitted once per finished (or skipped) session.
type SessionCompleted struct {
	SessionID string
	Kind      Kind
	Minutes   int
	Next      Kind
	Skipped   bool
	At        time.Time
}

// FormatClock renders seconds as zero-padded MM:SS. Hours roll into minutes.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
