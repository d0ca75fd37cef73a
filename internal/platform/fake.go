package platform

import "sync/atomic"

// FakeShortcut is a Shortcut driven by tests.
type FakeShortcut struct {
	RegisterErr  error
	keydown      chan struct{}
	registered   atomic.Bool
	unregistered atomic.Bool
}

func NewFakeShortcut() *FakeShortcut {
	return &FakeShortcut{keydown: make(chan struct{}, 1)}
}

func (f *FakeShortcut) Register() error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.registered.Store(true)
	return nil
}

func (f *FakeShortcut) Unregister()              { f.unregistered.Store(true) }
func (f *FakeShortcut) Keydown() <-chan struct{} { return f.keydown }

func (f *FakeShortcut) SimKeydown() { f.keydown <- struct{}{} }

func (f *FakeShortcut) Registered() bool   { return f.registered.Load() }
func (f *FakeShortcut) Unregistered() bool { return f.unregistered.Load() }
