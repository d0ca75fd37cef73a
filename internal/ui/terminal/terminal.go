package terminal

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tymodoro/internal/audio"
	"tymodoro/internal/core/model"
	"tymodoro/internal/surface"
)

// Terminal runs the bubbletea program and is the primary surface in -tui mode.
type Terminal struct {
	surface *surface.ChannelSurface
	updates chan tea.Msg
	model   Model
}

// New creates a terminal surface. Attach Surface() to the hub before Run.
func New(controls Controls) *Terminal {
	channel := surface.NewChannelSurface(8)
	updates := make(chan tea.Msg, 16)
	return &Terminal{
		surface: channel,
		updates: updates,
		model:   NewModel(controls, channel.Messages(), updates),
	}
}

// Surface returns the hub-facing side of the terminal.
func (t *Terminal) Surface() *surface.ChannelSurface {
	return t.surface
}

// Run blocks until the user quits or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	defer t.surface.Close()
	program := tea.NewProgram(t.model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal surface: %w", err)
	}
	return nil
}

// SetAudioState pushes the engine state. Never blocks.
func (t *Terminal) SetAudioState(state audio.State) {
	t.send(audioMsg(state))
}

// SetSummary pushes fresh statistics. Never blocks.
func (t *Terminal) SetSummary(summary model.Summary) {
	t.send(summaryMsg(summary))
}

// Confirm matches surface.ConfirmFunc.
func (t *Terminal) Confirm(percent float64, confirm func()) {
	t.send(confirmMsg{percent: percent, confirm: confirm})
}

func (t *Terminal) send(msg tea.Msg) {
	select {
	case t.updates <- msg:
	default:
	}
}
