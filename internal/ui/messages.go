package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/heartbeat/internal/anim"
	"github.com/olivier-w/heartbeat/internal/haptics"
)

type animTickMsg time.Time

// viewShownMsg is sent once the program starts drawing.
type viewShownMsg struct{}

type engineEventMsg struct {
	event haptics.Event
}

func animTickCmd() tea.Cmd {
	return tea.Tick(time.Second/anim.FPS, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func viewShownCmd() tea.Msg {
	return viewShownMsg{}
}

// waitForEvent delivers the next engine notification.
func waitForEvent(ch <-chan haptics.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return engineEventMsg{event: ev}
	}
}
