package surface

import "sync/atomic"

// ChannelSurface hands messages to an in-process consumer through a buffered
// channel. When the buffer is full the oldest message is discarded, so the
// consumer always ends up with the latest snapshot.
type ChannelSurface struct {
	id     string
	c      chan Message
	closed atomic.Bool
}

// NewChannelSurface creates a ChannelSurface with the given buffer.
func NewChannelSurface(buffer int) *ChannelSurface {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSurface{
		id: NewSurfaceID(),
		c:  make(chan Message, buffer),
	}
}

func (surface *ChannelSurface) ID() string { return surface.id }

func (surface *ChannelSurface) Alive() bool { return !surface.closed.Load() }

// Deliver never blocks.
func (surface *ChannelSurface) Deliver(message Message) {
	if surface.closed.Load() {
		return
	}
	for attempt := 0; attempt < 2; attempt++ {
		select {
		case surface.c <- message:
			return
		default:
		}
		select {
		case <-surface.c:
		default:
		}
	}
}

// Messages returns the receive side.
func (surface *ChannelSurface) Messages() <-chan Message {
	return surface.c
}

// Close marks the surface dead. The hub detaches it on its next broadcast.
func (surface *ChannelSurface) Close() {
	surface.closed.Store(true)
}
