package notify

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"tymodoro/internal/core/model"
)

// Title is shown on every completion notification.
const Title = "TYMODORO"

// Notifier delivers a desktop notification. Failures are not reported.
type Notifier interface {
	Notify(title, body string)
}

// CompletionMessage returns the notification text for a finished session.
func CompletionMessage(completed model.SessionCompleted) (title, body string) {
	switch completed.Kind {
	case model.KindShortBreak:
		return Title, fmt.Sprintf("Great! You completed your %d-minute quick recharge break!", completed.Minutes)
	case model.KindLongBreak:
		return Title, fmt.Sprintf("Great! You completed your %d-minute extended recharge break!", completed.Minutes)
	default:
		return Title, fmt.Sprintf("Amazing! You completed a %d-minute deep focus session!", completed.Minutes)
	}
}

// Completion sends the completion message for completed through notifier.
func Completion(notifier Notifier, completed model.SessionCompleted) {
	if notifier == nil {
		return
	}
	notifier.Notify(CompletionMessage(completed))
}

// AwayMessage explains an automatic pause after away of inactivity.
func AwayMessage(away time.Duration) string {
	minutes := int(away / time.Minute)
	if minutes < 1 {
		return "Focus paused while you were away."
	}
	return fmt.Sprintf("Focus paused after %d minutes away. Press start when you're back.", minutes)
}

// FyneNotifier sends notifications through the fyne app.
type FyneNotifier struct {
	app fyne.App
}

func NewFyneNotifier(app fyne.App) *FyneNotifier {
	return &FyneNotifier{app: app}
}

func (n *FyneNotifier) Notify(title, body string) {
	if n == nil || n.app == nil {
		return
	}
	n.app.SendNotification(fyne.NewNotification(title, body))
}

// LogNotifier writes notifications to the log. Used by the terminal surface.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) LogNotifier {
	return LogNotifier{logger: logger}
}

func (n LogNotifier) Notify(title, body string) {
	n.logger.Info().Str("title", title).Msg(body)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(title, body string) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(title, body)
		}
	}
}
