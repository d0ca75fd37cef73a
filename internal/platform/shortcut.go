package platform

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Shortcut is a global keyboard shortcut.
type Shortcut interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
}

// Binding ties a shortcut to the action it triggers.
type Binding struct {
	Name     string
	Shortcut Shortcut
	Action   func()
}

// ListenShortcuts registers every binding and runs its action on keydown
// until ctx is done. If any registration fails, the ones already registered
// are released and the error is returned.
func ListenShortcuts(ctx context.Context, logger zerolog.Logger, bindings ...Binding) error {
	registered := make([]Binding, 0, len(bindings))
	for _, binding := range bindings {
		if err := binding.Shortcut.Register(); err != nil {
			for _, done := range registered {
				done.Shortcut.Unregister()
			}
			return fmt.Errorf("register %s shortcut: %w", binding.Name, err)
		}
		registered = append(registered, binding)
	}

	for _, binding := range registered {
		go func(binding Binding) {
			keydown := binding.Shortcut.Keydown()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-keydown:
					if !ok {
						return
					}
					logger.Debug().Str("shortcut", binding.Name).Msg("shortcut pressed")
					if binding.Action != nil {
						binding.Action()
					}
				}
			}
		}(binding)
	}

	go func() {
		<-ctx.Done()
		for _, binding := range registered {
			binding.Shortcut.Unregister()
		}
	}()
	return nil
}
