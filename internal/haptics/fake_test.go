package haptics

import (
	"errors"
	"fmt"
)

// calls records every engine and player call in order.
type calls []string

func (c *calls) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeDevice struct {
	supported bool
	engine    *fakeEngine
	newErr    error
}

func (d *fakeDevice) SupportsHaptics() bool { return d.supported }

func (d *fakeDevice) NewEngine() (Engine, error) {
	if d.newErr != nil {
		return nil, d.newErr
	}
	return d.engine, nil
}

type fakeEngine struct {
	log       *calls
	startErr  error
	stopErr   error
	playerErr error
	starts    int
	players   []*fakePlayer

	// playerStartErr is given to every player the engine builds.
	playerStartErr error
	playerStopErr  error
}

func (e *fakeEngine) Start() error {
	e.starts++
	e.log.add("engine.start")
	return e.startErr
}

func (e *fakeEngine) Stop() error {
	e.log.add("engine.stop")
	return e.stopErr
}

func (e *fakeEngine) NewPlayer(p Pattern) (Player, error) {
	e.log.add("engine.newPlayer %s", p.Name)
	if e.playerErr != nil {
		return nil, e.playerErr
	}
	pl := &fakePlayer{
		name:     p.Name,
		log:      e.log,
		startErr: e.playerStartErr,
		stopErr:  e.playerStopErr,
	}
	e.players = append(e.players, pl)
	return pl, nil
}

type fakePlayer struct {
	name     string
	log      *calls
	startErr error
	stopErr  error
	playing  bool
}

func (p *fakePlayer) Start() error {
	p.log.add("player.start %s", p.name)
	if p.startErr != nil {
		return p.startErr
	}
	p.playing = true
	return nil
}

func (p *fakePlayer) Stop() error {
	p.log.add("player.stop %s", p.name)
	p.playing = false
	return p.stopErr
}

type fakeSource struct {
	log     *calls
	missing map[string]bool
}

func (s *fakeSource) Load(name string) (Pattern, error) {
	s.log.add("load %s", name)
	if s.missing[name] {
		return Pattern{}, fmt.Errorf("%w: %s", ErrPatternNotFound, name)
	}
	return Pattern{Name: name, File: name + ".wav", Data: []byte(name)}, nil
}

var errBoom = errors.New("boom")

type fixture struct {
	log    *calls
	device *fakeDevice
	engine *fakeEngine
	source *fakeSource
	mgr    *Manager
}

func newFixture(supported bool) *fixture {
	log := &calls{}
	engine := &fakeEngine{log: log}
	device := &fakeDevice{supported: supported, engine: engine}
	source := &fakeSource{log: log, missing: map[string]bool{}}
	mgr := NewManager(device, source, [NumSlots]string{"heartbeat1", "heartbeat2"}, nil)
	return &fixture{log: log, device: device, engine: engine, source: source, mgr: mgr}
}

// activeCount returns how many slots hold a handle.
func (f *fixture) activeCount() int {
	n := 0
	for _, h := range f.mgr.slots {
		if h != nil {
			n++
		}
	}
	return n
}

// playingCount returns how many players were started and not stopped.
func (f *fixture) playingCount() int {
	n := 0
	for _, p := range f.engine.players {
		if p.playing {
			n++
		}
	}
	return n
}

func (f *fixture) reset() {
	*f.log = (*f.log)[:0]
}
