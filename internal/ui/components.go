package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	leftMargin = 2
	buttonGap  = 3
)

type action int

const (
	actionNone action = iota
	actionPlay1
	actionPlay2
	actionStop
)

type button struct {
	label  string
	action action
	style  lipgloss.Style
}

// renderButtons lays the buttons out on one line, starting at leftMargin.
func renderButtons(buttons []button) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		parts[i] = b.style.Render(b.label)
	}
	return strings.Repeat(" ", leftMargin) + strings.Join(parts, strings.Repeat(" ", buttonGap))
}

// buttonAt returns the action of the button covering column x.
func buttonAt(buttons []button, x int) action {
	start := leftMargin
	for _, b := range buttons {
		w := lipgloss.Width(b.style.Render(b.label))
		if x >= start && x < start+w {
			return b.action
		}
		start += w + buttonGap
	}
	return actionNone
}

func indent(block string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
