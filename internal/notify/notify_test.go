package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

type recordingNotifier struct {
	titles []string
	bodies []string
}

func (r *recordingNotifier) Notify(title, body string) {
	r.titles = append(r.titles, title)
	r.bodies = append(r.bodies, body)
}

func TestCompletionMessage(t *testing.T) {
	tests := []struct {
		kind    model.Kind
		minutes int
		want    string
	}{
		{model.KindWork, 25, "Amazing! You completed a 25-minute deep focus session!"},
		{model.KindShortBreak, 5, "Great! You completed your 5-minute quick recharge break!"},
		{model.KindLongBreak, 15, "Great! You completed your 15-minute extended recharge break!"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			title, body := CompletionMessage(model.SessionCompleted{Kind: tt.kind, Minutes: tt.minutes})
			if title != Title {
				t.Errorf("title = %q", title)
			}
			if body != tt.want {
				t.Errorf("body = %q, want %q", body, tt.want)
			}
		})
	}
}

func TestCompletionNilNotifier(t *testing.T) {
	Completion(nil, model.SessionCompleted{Kind: model.KindWork, Minutes: 25})
}

func TestMultiFansOut(t *testing.T) {
	first, second := &recordingNotifier{}, &recordingNotifier{}
	Completion(Multi{first, nil, second}, model.SessionCompleted{Kind: model.KindWork, Minutes: 50})

	for i, r := range []*recordingNotifier{first, second} {
		if len(r.bodies) != 1 || !strings.Contains(r.bodies[0], "50-minute") {
			t.Errorf("notifier %d bodies = %v", i, r.bodies)
		}
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	NewLogNotifier(zerolog.New(&buf)).Notify(Title, "done")
	if !strings.Contains(buf.String(), `"message":"done"`) || !strings.Contains(buf.String(), Title) {
		t.Errorf("log = %q", buf.String())
	}
}

func TestFyneNotifier(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	notifier := NewFyneNotifier(app)
	want := fyne.NewNotification(Title, "Amazing! You completed a 25-minute deep focus session!")
	test.AssertNotificationSent(t, want, func() {
		Completion(notifier, model.SessionCompleted{Kind: model.KindWork, Minutes: 25})
	})
}

func TestAwayMessage(t *testing.T) {
	if got := AwayMessage(30 * time.Second); got != "Focus paused while you were away." {
		t.Errorf("AwayMessage(30s) = %q", got)
	}
	if got := AwayMessage(7*time.Minute + 20*time.Second); !strings.Contains(got, "7 minutes") {
		t.Errorf("AwayMessage(7m20s) = %q", got)
	}
}
