package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/heartbeat/internal/haptics"
	"github.com/sirupsen/logrus"
)

// UnavailableMessage is shown in place of the controls when haptics cannot
// be used.
const UnavailableMessage = "Custom haptics are not supported or the engine could not be initialized."

// Haptics is the playback-handle manager the view drives.
type Haptics interface {
	Available() bool
	PlaySlotA()
	PlaySlotB()
	StopAll()
	HandleEvent(ev haptics.Event)
	Active() (haptics.Slot, bool)
}

// Animator is the animation runtime.
type Animator interface {
	TriggerInput(name string) error
	Reset()
	Tick()
	// Animating reports whether Tick still changes the frame.
	Animating() bool
	State() string
	View() string
}

// ButtonSpec names a play button and the animation trigger it fires.
type ButtonSpec struct {
	Label   string
	Trigger string
}

// Options configures a Model.
type Options struct {
	Title   string
	Buttons [haptics.NumSlots]ButtonSpec
	// Events carries engine notifications; may be nil.
	Events <-chan haptics.Event
	Log    logrus.FieldLogger
}

// Model is the Bubbletea model for the demo screen.
type Model struct {
	haptics  Haptics
	animator Animator
	events   <-chan haptics.Event
	log      logrus.FieldLogger

	title    string
	triggers [haptics.NumSlots]string
	buttons  []button
	keys     keyMap
	help     help.Model

	engineAvailable bool
	visible         bool
	ticking         bool
	lastEvent       string
	width           int
	quitting        bool
}

// New creates a Model driving h and a.
func New(h Haptics, a Animator, opts Options) Model {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	b1, b2 := opts.Buttons[0], opts.Buttons[1]
	keys := newKeyMap(b1.Label, b2.Label)
	keys.setControlsEnabled(false)
	return Model{
		haptics:  h,
		animator: a,
		events:   opts.Events,
		log:      log.WithField("component", "ui"),
		title:    opts.Title,
		triggers: [haptics.NumSlots]string{b1.Trigger, b2.Trigger},
		buttons: []button{
			{label: b1.Label, action: actionPlay1, style: play1Style},
			{label: b2.Label, action: actionPlay2, style: play2Style},
			{label: "Stop", action: actionStop, style: stopStyle},
		},
		keys:    keys,
		help:    help.New(),
		ticking: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		viewShownCmd,
		animTickCmd(),
		waitForEvent(m.events),
		tea.SetWindowTitle(m.title),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewShownMsg, tea.FocusMsg:
		m.show()
		return m, nil

	case tea.BlurMsg:
		m.hide()
		return m, nil

	case animTickMsg:
		m.animator.Tick()
		if !m.animator.Animating() {
			m.ticking = false
			return m, nil
		}
		return m, animTickCmd()

	case engineEventMsg:
		m.haptics.HandleEvent(msg.event)
		m.lastEvent = msg.event.String()
		if m.visible {
			m.refreshAvailability()
		}
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.hide()
			m.quitting = true
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		case key.Matches(msg, m.keys.Play1):
			return m, m.do(actionPlay1)
		case key.Matches(msg, m.keys.Play2):
			return m, m.do(actionPlay2)
		case key.Matches(msg, m.keys.Stop):
			return m, m.do(actionStop)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.engineAvailable {
			if msg.Y == m.controlsRow() {
				return m, m.do(buttonAt(m.buttons, msg.X))
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// show re-derives engine availability when the view becomes visible.
func (m *Model) show() {
	m.visible = true
	m.refreshAvailability()
	if m.engineAvailable {
		m.log.Info("haptics supported, engine initialized")
	} else {
		m.log.Warn("haptics not supported or engine not initialized")
	}
}

// refreshAvailability shows or hides the controls to match the manager.
func (m *Model) refreshAvailability() {
	m.engineAvailable = m.haptics.Available()
	m.keys.setControlsEnabled(m.engineAvailable)
}

// hide stops all haptics when the view goes away.
func (m *Model) hide() {
	m.visible = false
	m.haptics.StopAll()
}

// do runs a control action and returns the command that resumes the
// animation ticks, if they had stopped.
func (m *Model) do(a action) tea.Cmd {
	if !m.engineAvailable {
		return nil
	}
	switch a {
	case actionPlay1:
		m.log.Info("Play 1 pressed: animation + haptics")
		m.trigger(m.triggers[0])
		m.haptics.PlaySlotA()
	case actionPlay2:
		m.log.Info("Play 2 pressed: animation + haptics")
		m.trigger(m.triggers[1])
		m.haptics.PlaySlotB()
	case actionStop:
		m.log.Info("Stop pressed: stopping haptics, resetting animation")
		m.haptics.StopAll()
		m.animator.Reset()
	}
	if m.ticking || !m.animator.Animating() {
		return nil
	}
	m.ticking = true
	return animTickCmd()
}

func (m *Model) trigger(name string) {
	if err := m.animator.TriggerInput(name); err != nil {
		m.log.WithError(err).WithField("trigger", name).Warn("animation trigger failed")
	}
}

// top renders everything above the controls.
func (m Model) top() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render(m.title) + "\n")
	b.WriteString("\n")
	b.WriteString(indent(m.animator.View(), leftMargin) + "\n")
	b.WriteString("\n")
	return b.String()
}

// controlsRow is the screen row the buttons are drawn on.
func (m Model) controlsRow() int {
	return strings.Count(m.top(), "\n")
}

func (m Model) statusLine() string {
	slot := "idle"
	if s, ok := m.haptics.Active(); ok {
		slot = fmt.Sprintf("slot %s", s)
	}
	parts := []string{
		"haptics: " + slot,
		"heart: " + m.animator.State(),
	}
	if m.lastEvent != "" {
		parts = append(parts, "engine: "+m.lastEvent)
	}
	return strings.Join(parts, "  ·  ")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	lines := m.top()
	if m.engineAvailable {
		lines += renderButtons(m.buttons) + "\n"
	} else {
		msg := UnavailableMessage
		if m.width > 10 {
			msg = errorStyle.Width(m.width - 2*leftMargin).Render(msg)
		} else {
			msg = errorStyle.Render(msg)
		}
		lines += indent(msg, leftMargin) + "\n"
	}
	lines += "\n"
	lines += "  " + statusStyle.Render(m.statusLine()) + "\n"
	lines += "\n"
	lines += "  " + m.help.View(m.keys) + "\n"

	return lines
}
