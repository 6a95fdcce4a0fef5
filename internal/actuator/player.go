package actuator

import (
	"fmt"
	"time"
)

// Player plays one decoded pattern once.
type Player struct {
	engine   *Engine
	voice    voice
	name     string
	duration time.Duration
}

// Start begins playback immediately.
func (p *Player) Start() error {
	e := p.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return ErrEngineStopped
	}
	p.voice.Play()
	e.lastActive = e.now()
	return nil
}

// Stop halts playback immediately. The voice is paused even when the
// output has failed; the failure is still reported.
func (p *Player) Stop() error {
	e := p.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	p.voice.Pause()
	e.removeLocked(p)
	if err := e.out.Err(); err != nil {
		return fmt.Errorf("stop %s: %w", p.name, err)
	}
	return nil
}

// Duration returns the pattern length.
func (p *Player) Duration() time.Duration {
	return p.duration
}
