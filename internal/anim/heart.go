// Package anim is the animation runtime: a spring-driven heart with a small
// state machine whose trigger inputs start beat rhythms.
package anim

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// FPS is the rate Tick is expected to be called at.
const FPS = 30

const (
	restScale = 1.0
	holdTicks = 3 // ticks a beat holds its peak target
	settleEps = 0.005
)

// ErrUnknownInput is returned by TriggerInput for inputs the state machine
// does not declare.
var ErrUnknownInput = errors.New("unknown trigger input")

// StateIdle is the state machine's resting state.
const StateIdle = "idle"

// rhythm is the beat schedule a trigger input starts.
type rhythm struct {
	beats    []int // tick offsets from the trigger
	strength float64
}

// machines holds the authored animations: file -> state machine -> inputs.
var machines = map[string]map[string]map[string]rhythm{
	"heart": {
		"heart": {
			"play1": {beats: []int{0, 9}, strength: 0.35},        // lub-dub
			"play2": {beats: []int{0, 6, 18, 24}, strength: 0.5}, // double beat
		},
	},
}

// Heart renders a beating heart.
type Heart struct {
	file    string
	machine string
	inputs  map[string]rhythm

	spring harmonica.Spring
	scale  float64
	vel    float64
	target float64

	state     string
	tick      int
	pending   []int
	strength  float64
	holdUntil int

	width  int
	height int
	style  lipgloss.Style
}

// Load returns the heart for the given animation file and state machine.
func Load(file, machine string) (*Heart, error) {
	sms, ok := machines[file]
	if !ok {
		return nil, fmt.Errorf("animation %q not found", file)
	}
	inputs, ok := sms[machine]
	if !ok {
		return nil, fmt.Errorf("state machine %q not found in %q", machine, file)
	}
	h := &Heart{
		file:    file,
		machine: machine,
		inputs:  inputs,
		spring:  harmonica.NewSpring(harmonica.FPS(FPS), 9.0, 0.45),
		height:  11,
		style: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF4D6D"}),
	}
	h.width = h.height * 2
	h.Reset()
	return h, nil
}

// Inputs lists the trigger inputs the state machine declares.
func (h *Heart) Inputs() []string {
	names := make([]string, 0, len(h.inputs))
	for name := range h.inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TriggerInput fires a named trigger, restarting its rhythm.
func (h *Heart) TriggerInput(name string) error {
	r, ok := h.inputs[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInput, name)
	}
	h.state = name
	h.tick = -1
	h.pending = append(h.pending[:0], r.beats...)
	h.strength = r.strength
	h.holdUntil = 0
	return nil
}

// Reset returns the state machine to idle and the heart to rest.
func (h *Heart) Reset() {
	h.state = StateIdle
	h.tick = 0
	h.pending = h.pending[:0]
	h.holdUntil = 0
	h.scale = restScale
	h.vel = 0
	h.target = restScale
}

// Tick advances the animation one frame.
func (h *Heart) Tick() {
	h.tick++
	for len(h.pending) > 0 && h.pending[0] <= h.tick {
		h.pending = h.pending[1:]
		h.target = restScale + h.strength
		h.holdUntil = h.tick + holdTicks
	}
	if h.tick >= h.holdUntil {
		h.target = restScale
	}
	h.scale, h.vel = h.spring.Update(h.scale, h.vel, h.target)

	if h.state != StateIdle && len(h.pending) == 0 && h.tick >= h.holdUntil && h.settled() {
		h.state = StateIdle
	}
}

func (h *Heart) settled() bool {
	return math.Abs(h.scale-restScale) < settleEps && math.Abs(h.vel) < settleEps
}

// State returns the current state name.
func (h *Heart) State() string { return h.state }

// Scale returns the current heart scale; 1 is at rest.
func (h *Heart) Scale() float64 { return h.scale }

// Animating reports whether the heart is away from rest.
func (h *Heart) Animating() bool {
	return h.state != StateIdle || !h.settled()
}

// View renders the current frame.
func (h *Heart) View() string {
	rows := make([]string, h.height)
	var b strings.Builder
	for r := 0; r < h.height; r++ {
		b.Reset()
		for c := 0; c < h.width; c++ {
			if h.filled(c, r) {
				b.WriteRune('█')
			} else {
				b.WriteByte(' ')
			}
		}
		rows[r] = h.style.Render(b.String())
	}
	return strings.Join(rows, "\n")
}

// filled reports whether cell (c, r) lies inside the heart curve
// (x²+y²-1)³ - x²y³ <= 0 at the current scale.
func (h *Heart) filled(c, r int) bool {
	const extent = 1.35
	s := h.scale
	if s <= 0 {
		return false
	}
	x := ((float64(c)+0.5)/float64(h.width)*2 - 1) * extent / s
	y := -((float64(r)+0.5)/float64(h.height)*2-1)*extent/s + 0.15
	a := x*x + y*y - 1
	return a*a*a-x*x*y*y*y <= 0
}
