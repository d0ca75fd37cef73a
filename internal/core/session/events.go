package session

import (
	"time"

	"tymodoro/internal/core/model"
)

// EventType defines the type of Controller event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventCompleted   EventType = "completed"
	EventConfirmSkip EventType = "confirm_skip"
)

// Event represents a Controller update for observers.
type Event struct {
	Type      EventType
	Snapshot  model.Snapshot
	Completed *model.SessionCompleted
	Percent   float64
	At        time.Time
}

// TickResult is the outcome of a pure remaining-time recompute.
type TickResult struct {
	Remaining int
	Expired   bool
}

// SkipResult describes what Skip did.
// When RequiresConfirmation is set nothing changed and the caller must ask the
// user before calling ForceSkip.
type SkipResult struct {
	RequiresConfirmation bool
	PercentComplete      float64
	Completed            *model.SessionCompleted
}
