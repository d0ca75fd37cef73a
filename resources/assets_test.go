package resources

import (
	"testing"

	"tymodoro/internal/core/model"
)

func TestIconsEmbedded(t *testing.T) {
	for _, name := range []string{"app.svg", "work.svg", "break.svg", "paused.svg"} {
		resource, err := Icon(name)
		if err != nil {
			t.Fatalf("Icon(%q) error = %v", name, err)
		}
		if len(resource.Content()) == 0 {
			t.Errorf("Icon(%q) is empty", name)
		}
	}
	if _, err := Icon("missing.svg"); err == nil {
		t.Error("expected error for a missing icon")
	}
}

func TestTrayIconFollowsState(t *testing.T) {
	tests := []struct {
		snapshot model.Snapshot
		want     string
	}{
		{model.Snapshot{Kind: model.KindWork}, "icons/paused.svg"},
		{model.Snapshot{Kind: model.KindWork, Running: true}, "icons/work.svg"},
		{model.Snapshot{Kind: model.KindLongBreak, Running: true}, "icons/break.svg"},
	}
	for _, tt := range tests {
		if got := TrayIcon(tt.snapshot).Name(); got != tt.want {
			t.Errorf("TrayIcon(%+v) = %q, want %q", tt.snapshot, got, tt.want)
		}
	}
	if AppIcon() != MustIcon("app.svg") {
		t.Error("icons should be cached")
	}
}
