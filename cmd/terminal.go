package main

import (
	"context"

	"tymodoro/internal/platform"
	"tymodoro/internal/ui/terminal"
)

// runTerminal runs the bubbletea surface as the primary surface.
func runTerminal(ctx context.Context, c *core, guard *platform.InstanceGuard) error {
	term := terminal.New(terminal.Controls{
		Toggle:      c.controller.Toggle,
		Skip:        c.Skip,
		Reset:       c.controller.Reset,
		SelectKind:  c.controller.Select,
		SelectSound: c.SelectSound,
		StopSound:   c.engine.StopVoice,
		SetVolume:   c.engine.SetVolume,
		Remembered:  c.Remembered,
	})
	c.relay.SetConfirm(term.Confirm)
	c.hub.Attach(term.Surface())

	c.engine.OnChange(term.SetAudioState)
	c.OnSummary(term.SetSummary)
	term.SetAudioState(c.engine.State())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go guard.Serve(runCtx, func() {
		c.logger.Info().Msg("already running in a terminal")
	})
	c.Start(runCtx)
	return term.Run(runCtx)
}
