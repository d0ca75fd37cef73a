package surface

import (
	"errors"
	"fmt"

	"tymodoro/internal/core/model"
)

// ErrUnknownCommand is returned for command names outside the closed set.
var ErrUnknownCommand = errors.New("unknown command")

// MessageType tags a Message on the wire.
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessageCommand  MessageType = "command"
)

// Command is a request a secondary surface may send to the primary one.
type Command string

const (
	CommandToggleRun   Command = "toggle"
	CommandSkip        Command = "skip"
	CommandRequestSync Command = "sync"
)

// ParseCommand validates name.
func ParseCommand(name string) (Command, error) {
	switch command := Command(name); command {
	case CommandToggleRun, CommandSkip, CommandRequestSync:
		return command, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

// Message is the closed set of things exchanged between surfaces.
type Message interface {
	Type() MessageType
	isMessage()
}

// SnapshotMessage carries the full timer state. Receivers overwrite what they
// display; applying the same snapshot twice is harmless.
type SnapshotMessage struct {
	Snapshot model.Snapshot
}

func (SnapshotMessage) Type() MessageType { return MessageSnapshot }
func (SnapshotMessage) isMessage()        {}

// CommandMessage is a fire-and-forget request from a surface.
type CommandMessage struct {
	Command Command
	Source  string
}

func (CommandMessage) Type() MessageType { return MessageCommand }
func (CommandMessage) isMessage()        {}

// Envelope is the JSON form of a Message.
type Envelope struct {
	Type     MessageType     `json:"type"`
	Snapshot *model.Snapshot `json:"snapshot,omitempty"`
	Command  Command         `json:"command,omitempty"`
	Source   string          `json:"source,omitempty"`
}

// Encode wraps message for transport.
func Encode(message Message) Envelope {
	switch message := message.(type) {
	case SnapshotMessage:
		snapshot := message.Snapshot
		return Envelope{Type: MessageSnapshot, Snapshot: &snapshot}
	case CommandMessage:
		return Envelope{Type: MessageCommand, Command: message.Command, Source: message.Source}
	default:
		panic(fmt.Sprintf("surface: unhandled message %T", message))
	}
}

// Decode validates envelope and returns the Message it carries.
func Decode(envelope Envelope) (Message, error) {
	switch envelope.Type {
	case MessageSnapshot:
		if envelope.Snapshot == nil {
			return nil, errors.New("snapshot message without snapshot")
		}
		return SnapshotMessage{Snapshot: *envelope.Snapshot}, nil
	case MessageCommand:
		command, err := ParseCommand(string(envelope.Command))
		if err != nil {
			return nil, err
		}
		return CommandMessage{Command: command, Source: envelope.Source}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", envelope.Type)
	}
}
