//go:build !linux

package platform

import "golang.design/x/hotkey"

type systemShortcut struct {
	hk *hotkey.Hotkey
}

// NewToggleShortcut returns Ctrl+Shift+Space.
func NewToggleShortcut() Shortcut {
	return &systemShortcut{hk: hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeySpace)}
}

// NewSkipShortcut returns Ctrl+Shift+N.
func NewSkipShortcut() Shortcut {
	return &systemShortcut{hk: hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyN)}
}

func (s *systemShortcut) Register() error          { return s.hk.Register() }
func (s *systemShortcut) Unregister()              { _ = s.hk.Unregister() }
func (s *systemShortcut) Keydown() <-chan struct{} { return adapt(s.hk.Keydown()) }

// adapt converts the library's event channel. Presses arriving while the
// previous one is unhandled are dropped.
func adapt(events <-chan hotkey.Event) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range events {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}
