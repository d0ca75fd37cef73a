package surface

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
	"tymodoro/internal/core/session"
)

// ConfirmFunc asks the user whether to skip a work session that is
// percent complete. It calls confirm only if the user agrees.
type ConfirmFunc func(percent float64, confirm func())

// Relay connects a Controller to a Hub: controller events become snapshot
// broadcasts and surface commands become controller calls.
type Relay struct {
	controller *session.Controller
	hub        *Hub
	events     <-chan session.Event
	logger     zerolog.Logger

	mu      sync.Mutex
	confirm ConfirmFunc
}

// NewRelay subscribes to controller immediately so no event is missed before
// Run starts.
func NewRelay(controller *session.Controller, hub *Hub, logger zerolog.Logger) *Relay {
	return &Relay{
		controller: controller,
		hub:        hub,
		events:     controller.Subscribe(32),
		logger:     logger,
	}
}

// SetConfirm installs the primary surface's skip confirmation prompt.
func (relay *Relay) SetConfirm(confirm ConfirmFunc) {
	relay.mu.Lock()
	relay.confirm = confirm
	relay.mu.Unlock()
}

// Run pumps events and commands until ctx is cancelled or the controller is
// closed.
func (relay *Relay) Run(ctx context.Context) {
	relay.hub.Broadcast(relay.controller.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-relay.events:
			if !ok {
				return
			}
			relay.handleEvent(event)
		case command := <-relay.hub.Commands():
			relay.Apply(command.Command)
		}
	}
}

// Rebroadcast pushes snapshot to every surface. The scheduler calls it
// periodically so surfaces that missed a message converge.
func (relay *Relay) Rebroadcast(snapshot model.Snapshot) {
	relay.hub.Broadcast(snapshot)
}

// Apply executes command against the controller.
func (relay *Relay) Apply(command Command) {
	relay.logger.Debug().Str("command", string(command)).Msg("apply command")
	switch command {
	case CommandToggleRun:
		relay.controller.Toggle()
	case CommandSkip:
		relay.controller.Skip()
	case CommandRequestSync:
		relay.hub.Broadcast(relay.controller.Snapshot())
	default:
		relay.logger.Warn().Str("command", string(command)).Msg("ignoring unknown command")
	}
}

func (relay *Relay) handleEvent(event session.Event) {
	switch event.Type {
	case session.EventConfirmSkip:
		relay.askConfirm(event.Percent)
	default:
		relay.hub.Broadcast(event.Snapshot)
	}
}

func (relay *Relay) askConfirm(percent float64) {
	relay.mu.Lock()
	confirm := relay.confirm
	relay.mu.Unlock()

	if confirm == nil {
		relay.logger.Info().Float64("percent", percent).Msg("skip needs confirmation but no prompt is installed")
		return
	}
	sessionID := relay.controller.Snapshot().SessionID
	confirm(percent, func() {
		if relay.controller.Snapshot().SessionID != sessionID {
			return
		}
		relay.controller.ForceSkip()
	})
}
