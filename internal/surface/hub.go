package surface

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

const DefaultCommandBuffer = 16

// Surface is anything that displays snapshots.
// Alive is checked before every delivery; a surface that reports false is
// detached and never called again.
type Surface interface {
	ID() string
	Alive() bool
	Deliver(Message)
}

// Hub fans snapshots out to surfaces and queues their commands.
type Hub struct {
	// sending orders whole broadcasts so deliveries never interleave.
	sending  sync.Mutex
	mu       sync.RWMutex
	surfaces map[string]Surface
	last     *model.Snapshot
	commands chan CommandMessage
	logger   zerolog.Logger
}

// NewHub creates a Hub with a command queue of buffer entries.
func NewHub(buffer int, logger zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultCommandBuffer
	}
	return &Hub{
		surfaces: make(map[string]Surface),
		commands: make(chan CommandMessage, buffer),
		logger:   logger,
	}
}

// Attach registers surface and sends it the latest snapshot, if any.
func (hub *Hub) Attach(surface Surface) {
	hub.mu.Lock()
	hub.surfaces[surface.ID()] = surface
	last := hub.last
	count := len(hub.surfaces)
	hub.mu.Unlock()

	hub.logger.Debug().Str("surface", surface.ID()).Int("surfaces", count).Msg("surface attached")
	if last != nil && surface.Alive() {
		surface.Deliver(SnapshotMessage{Snapshot: *last})
	}
}

// Detach removes the surface with id. Unknown ids are ignored.
func (hub *Hub) Detach(id string) {
	hub.mu.Lock()
	_, ok := hub.surfaces[id]
	delete(hub.surfaces, id)
	hub.mu.Unlock()

	if ok {
		hub.logger.Debug().Str("surface", id).Msg("surface detached")
	}
}

// Count returns the number of attached surfaces.
func (hub *Hub) Count() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.surfaces)
}

// Broadcast delivers snapshot to every live surface and detaches dead ones.
// A snapshot taken before the last one broadcast is stale and is dropped.
func (hub *Hub) Broadcast(snapshot model.Snapshot) {
	hub.sending.Lock()
	defer hub.sending.Unlock()

	hub.mu.Lock()
	if hub.last != nil && snapshot.At.Before(hub.last.At) {
		hub.mu.Unlock()
		hub.logger.Debug().Time("at", snapshot.At).Msg("dropping stale snapshot")
		return
	}
	hub.last = &snapshot
	live := make([]Surface, 0, len(hub.surfaces))
	for id, surface := range hub.surfaces {
		if !surface.Alive() {
			delete(hub.surfaces, id)
			hub.logger.Debug().Str("surface", id).Msg("dropping dead surface")
			continue
		}
		live = append(live, surface)
	}
	hub.mu.Unlock()

	message := SnapshotMessage{Snapshot: snapshot}
	for _, surface := range live {
		surface.Deliver(message)
	}
}

// Last returns the most recent broadcast snapshot.
func (hub *Hub) Last() (model.Snapshot, bool) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.last == nil {
		return model.Snapshot{}, false
	}
	return *hub.last, true
}

// Request queues a command without waiting. It reports false when the queue
// is full and the command was dropped.
func (hub *Hub) Request(command CommandMessage) bool {
	select {
	case hub.commands <- command:
		return true
	default:
		hub.logger.Warn().Str("command", string(command.Command)).Str("source", command.Source).Msg("command queue full, dropping")
		return false
	}
}

// Commands returns the queue the primary surface consumes.
func (hub *Hub) Commands() <-chan CommandMessage {
	return hub.commands
}

// NewSurfaceID returns a fresh surface identifier.
func NewSurfaceID() string {
	return uuid.NewString()
}
