package actuator

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/olivier-w/heartbeat/internal/haptics"
	"github.com/sirupsen/logrus"
)

// ErrEngineStopped is returned when a player is created or started on a
// stopped engine.
var ErrEngineStopped = errors.New("engine stopped")

// Engine is a haptics.Engine on an audio output.
type Engine struct {
	out    output
	opts   Options
	notify func(haptics.Event)
	log    logrus.FieldLogger
	now    func() time.Time

	mu         sync.Mutex
	running    bool
	idle       bool // suspended by idle shutdown; resumes on the next player
	failed     bool // output failure already reported
	lastActive time.Time
	players    []*Player

	quit chan struct{} // non-nil while the watcher runs
}

func newEngine(out output, opts Options, notify func(haptics.Event), log logrus.FieldLogger) *Engine {
	return &Engine{
		out:    out,
		opts:   opts,
		notify: notify,
		log:    log,
		now:    time.Now,
	}
}

// Start resumes the audio output and starts watching it. Starting a running
// engine is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.out.Err(); err != nil {
		return fmt.Errorf("audio output failed: %w", err)
	}
	if e.running {
		return nil
	}
	if err := e.resumeLocked(); err != nil {
		return err
	}
	if e.quit == nil && e.opts.PollInterval > 0 {
		e.quit = make(chan struct{})
		go e.watch(e.quit)
	}
	return nil
}

func (e *Engine) resumeLocked() error {
	if err := e.out.Resume(); err != nil {
		return fmt.Errorf("resume audio output: %w", err)
	}
	e.running = true
	e.idle = false
	e.failed = false
	e.lastActive = e.now()
	return nil
}

// Stop halts every player, suspends the audio output and ends the watcher.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopWatchLocked()
	if !e.running {
		e.idle = false
		return nil
	}
	for _, p := range e.players {
		p.voice.Pause()
	}
	e.players = nil
	e.running = false
	e.idle = false
	if err := e.out.Suspend(); err != nil {
		return fmt.Errorf("suspend audio output: %w", err)
	}
	return nil
}

// NewPlayer decodes the pattern and prepares a voice for it. An engine
// suspended by idle shutdown is resumed.
func (e *Engine) NewPlayer(p haptics.Pattern) (haptics.Player, error) {
	pcm, err := decodePattern(p.File, p.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.File, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		if !e.idle {
			return nil, ErrEngineStopped
		}
		if err := e.resumeLocked(); err != nil {
			return nil, err
		}
		e.log.Debug("resumed after idle shutdown")
	}

	v := e.out.NewVoice(bytes.NewReader(pcm))
	v.SetVolume(e.opts.Gain)
	pl := &Player{
		engine:   e,
		voice:    v,
		name:     p.Name,
		duration: time.Duration(float64(len(pcm)) / float64(bytesPerSec) * float64(time.Second)),
	}
	e.players = append(e.players, pl)
	return pl, nil
}

// watch polls the output until quit is closed.
func (e *Engine) watch(quit <-chan struct{}) {
	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			e.check()
		}
	}
}

// check reports output failures and applies idle shutdown.
func (e *Engine) check() {
	var events []haptics.Event

	e.mu.Lock()
	if err := e.out.Err(); err != nil {
		if !e.failed {
			e.failed = true
			e.running = false
			e.idle = false
			e.players = nil
			e.log.WithError(err).Error("audio output failed")
			events = append(events,
				haptics.Event{Kind: haptics.EventStopped, Reason: haptics.ReasonAudioFailure},
				haptics.Event{Kind: haptics.EventReset},
			)
		}
	} else if e.running && e.opts.IdleShutdown > 0 {
		now := e.now()
		if e.prunePlayersLocked() {
			e.lastActive = now
		} else if now.Sub(e.lastActive) >= e.opts.IdleShutdown {
			if err := e.out.Suspend(); err != nil {
				e.log.WithError(err).Warn("idle suspend failed")
			} else {
				e.running = false
				e.idle = true
				e.players = nil
				events = append(events, haptics.Event{Kind: haptics.EventStopped, Reason: haptics.ReasonIdle})
			}
		}
	}
	e.mu.Unlock()

	for _, ev := range events {
		e.notify(ev)
	}
}

// prunePlayersLocked drops finished players and reports whether any is
// still playing.
func (e *Engine) prunePlayersLocked() bool {
	kept := e.players[:0]
	for _, p := range e.players {
		if p.voice.IsPlaying() {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(e.players); i++ {
		e.players[i] = nil
	}
	e.players = kept
	return len(kept) > 0
}

func (e *Engine) removeLocked(pl *Player) {
	for i, p := range e.players {
		if p == pl {
			e.players = append(e.players[:i], e.players[i+1:]...)
			return
		}
	}
}

func (e *Engine) stopWatchLocked() {
	if e.quit != nil {
		close(e.quit)
		e.quit = nil
	}
}

// watching reports whether the watcher is running.
func (e *Engine) watching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quit != nil
}

func (e *Engine) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopWatchLocked()
}
