package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tymodoro/internal/audio"
	"tymodoro/internal/audio/synth"
	"tymodoro/internal/core/model"
	"tymodoro/internal/surface"
)

// VolumeStep is the change applied by one volume key press.
const VolumeStep = 0.1

// Controls are the actions the terminal can trigger. Any may be nil.
type Controls struct {
	Toggle      func()
	Skip        func()
	Reset       func()
	SelectKind  func(model.Kind)
	SelectSound func(synth.Generator)
	StopSound   func()
	SetVolume   func(float64)
	Remembered  func() (synth.Generator, bool)
}

type snapshotMsg model.Snapshot

type audioMsg audio.State

type summaryMsg model.Summary

type confirmMsg struct {
	percent float64
	confirm func()
}

type closedMsg struct{}

// Model is the bubbletea model of the terminal surface.
type Model struct {
	keys     KeyMap
	help     help.Model
	progress progress.Model
	controls Controls

	messages <-chan surface.Message
	updates  <-chan tea.Msg

	snapshot    model.Snapshot
	hasSnapshot bool
	audio       audio.State
	summary     model.Summary
	prompt      *confirmMsg
	width       int
}

// NewModel creates a Model reading snapshots from messages and out-of-band
// updates (audio, stats, prompts) from updates. Either channel may be nil.
func NewModel(controls Controls, messages <-chan surface.Message, updates <-chan tea.Msg) Model {
	return Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(36)),
		controls: controls,
		messages: messages,
		updates:  updates,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForMessage(m.messages), waitForUpdate(m.updates))
}

func waitForMessage(messages <-chan surface.Message) tea.Cmd {
	if messages == nil {
		return nil
	}
	return func() tea.Msg {
		for message := range messages {
			if snapshot, ok := message.(surface.SnapshotMessage); ok {
				return snapshotMsg(snapshot.Snapshot)
			}
		}
		return closedMsg{}
	}
}

func waitForUpdate(updates <-chan tea.Msg) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snapshot = model.Snapshot(msg)
		m.hasSnapshot = true
		return m, waitForMessage(m.messages)

	case closedMsg:
		return m, tea.Quit

	case audioMsg:
		m.audio = audio.State(msg)
		return m, waitForUpdate(m.updates)

	case summaryMsg:
		m.summary = model.Summary(msg)
		return m, waitForUpdate(m.updates)

	case confirmMsg:
		m.prompt = &msg
		return m, waitForUpdate(m.updates)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(min(msg.Width-12, 60), 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.prompt != nil {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			confirm := m.prompt.confirm
			m.prompt = nil
			if confirm != nil {
				confirm()
			}
		case key.Matches(msg, m.keys.Cancel):
			m.prompt = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		call(m.controls.Toggle)
	case key.Matches(msg, m.keys.Skip):
		call(m.controls.Skip)
	case key.Matches(msg, m.keys.Reset):
		call(m.controls.Reset)
	case key.Matches(msg, m.keys.Work):
		m.selectKind(model.KindWork)
	case key.Matches(msg, m.keys.Short):
		m.selectKind(model.KindShortBreak)
	case key.Matches(msg, m.keys.Long):
		m.selectKind(model.KindLongBreak)
	case key.Matches(msg, m.keys.NextSound):
		if m.controls.SelectSound != nil {
			m.controls.SelectSound(m.nextSound())
		}
	case key.Matches(msg, m.keys.StopSound):
		call(m.controls.StopSound)
	case key.Matches(msg, m.keys.VolumeUp):
		m.changeVolume(VolumeStep)
	case key.Matches(msg, m.keys.VolumeDown):
		m.changeVolume(-VolumeStep)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) selectKind(kind model.Kind) {
	if m.controls.SelectKind != nil {
		m.controls.SelectKind(kind)
	}
}

func (m Model) changeVolume(delta float64) {
	if m.controls.SetVolume == nil {
		return
	}
	volume := math.Round((m.audio.Volume+delta)*100) / 100
	m.controls.SetVolume(min(max(volume, 0), 1))
}

func (m Model) nextSound() synth.Generator {
	if !m.audio.Active && m.controls.Remembered != nil {
		if generator, ok := m.controls.Remembered(); ok {
			return generator
		}
	}
	return NextGenerator(m.audio)
}

// NextGenerator returns the generator after the active one, wrapping around.
// With nothing playing it starts from the first generator.
func NextGenerator(state audio.State) synth.Generator {
	generators := synth.Generators()
	if !state.Active {
		return generators[0]
	}
	for i, generator := range generators {
		if generator == state.Generator {
			return generators[(i+1)%len(generators)]
		}
	}
	return generators[0]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("TYMODORO"))
	b.WriteString("\n\n")

	if !m.hasSnapshot {
		b.WriteString(MutedStyle.Render("waiting for timer..."))
	} else {
		b.WriteString(PanelStyle.Render(m.timerView()))
	}
	b.WriteString("\n")

	if m.prompt != nil {
		b.WriteString(PromptStyle.Render(fmt.Sprintf(
			"Only %d%% of this focus session is done. Skip anyway? (y/n)",
			int(math.Round(m.prompt.percent)),
		)))
		b.WriteString("\n")
	}

	b.WriteString(m.soundView())
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf(
		"today %d · week %d · month %d · streak %d",
		m.summary.Today, m.summary.Week, m.summary.Month, m.summary.CurrentStreak,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) timerView() string {
	clockStyle := WorkClockStyle
	if m.snapshot.Kind.IsBreak() {
		clockStyle = BreakClockStyle
	}
	state := "paused"
	if m.snapshot.Running {
		state = "running"
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		TextStyle.Render(m.snapshot.Kind.Label()),
		clockStyle.Render(m.snapshot.Clock()),
		m.progress.ViewAs(m.snapshot.Progress()),
		MutedStyle.Render(fmt.Sprintf("%s · %d completed", state, m.snapshot.CompletedWork)),
	)
}

func (m Model) soundView() string {
	volume := fmt.Sprintf("%d%%", int(math.Round(m.audio.Volume*100)))
	if !m.audio.Active {
		return MutedStyle.Render("sound off · volume " + volume)
	}
	return TextStyle.Render(fmt.Sprintf("♪ %s · volume %s", m.audio.Generator.Label(), volume))
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
