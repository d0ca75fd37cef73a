package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func waitFor(t *testing.T, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	first := portFromName("tymodoro")
	if first != portFromName("tymodoro") {
		t.Error("port should be deterministic")
	}
	if first < 20000 || first > 39999 {
		t.Errorf("port = %d out of range", first)
	}
}

func TestSecondInstanceActivatesFirst(t *testing.T) {
	name := "tymodoro-test-" + t.Name() + time.Now().Format("150405.000000")
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	defer guard.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	activated := make(chan struct{}, 1)
	go guard.Serve(ctx, func() { activated <- struct{}{} })

	if _, err := AcquireSingleInstance(name); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second acquire error = %v, want ErrAlreadyRunning", err)
	}
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}
}

func TestReleaseNilGuard(t *testing.T) {
	var guard *InstanceGuard
	if err := guard.Release(); err != nil {
		t.Errorf("Release() = %v", err)
	}
	if guard.Address() != "" {
		t.Error("nil guard should have no address")
	}
}

func TestListenShortcutsRunsActions(t *testing.T) {
	toggle, skip := NewFakeShortcut(), NewFakeShortcut()
	toggled := make(chan struct{}, 1)
	skipped := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	err := ListenShortcuts(ctx, zerolog.Nop(),
		Binding{Name: "toggle", Shortcut: toggle, Action: func() { toggled <- struct{}{} }},
		Binding{Name: "skip", Shortcut: skip, Action: func() { skipped <- struct{}{} }},
	)
	if err != nil {
		t.Fatal(err)
	}
	if !toggle.Registered() || !skip.Registered() {
		t.Fatal("shortcuts not registered")
	}

	toggle.SimKeydown()
	select {
	case <-toggled:
	case <-time.After(2 * time.Second):
		t.Fatal("toggle action not run")
	}
	skip.SimKeydown()
	select {
	case <-skipped:
	case <-time.After(2 * time.Second):
		t.Fatal("skip action not run")
	}

	cancel()
	waitFor(t, "unregister", func() bool { return toggle.Unregistered() && skip.Unregistered() })
}

func TestListenShortcutsRollsBackOnFailure(t *testing.T) {
	ok := NewFakeShortcut()
	broken := NewFakeShortcut()
	broken.RegisterErr = errors.New("grab failed")

	err := ListenShortcuts(context.Background(), zerolog.Nop(),
		Binding{Name: "toggle", Shortcut: ok},
		Binding{Name: "skip", Shortcut: broken},
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if !ok.Unregistered() {
		t.Error("successful registration should be rolled back")
	}
}
