package haptics

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Manager owns the engine handle and the playback slots.
// It is not safe for concurrent use; all calls, including HandleEvent, are
// made from Bubbletea's single-threaded Update loop.
type Manager struct {
	device   Device
	source   PatternSource
	patterns [NumSlots]string
	log      logrus.FieldLogger

	engine Engine
	slots  [NumSlots]*handle
}

// NewManager creates a Manager that plays patterns[s] in slot s.
// Call Initialize before use.
func NewManager(device Device, source PatternSource, patterns [NumSlots]string, log logrus.FieldLogger) *Manager {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Manager{
		device:   device,
		source:   source,
		patterns: patterns,
		log:      log.WithField("component", "haptics"),
	}
}

// Initialize queries the device and starts an engine. On failure the manager
// stays usable and every operation becomes a no-op.
func (m *Manager) Initialize() error {
	if m.engine != nil {
		return nil
	}
	if m.device == nil || !m.device.SupportsHaptics() {
		m.log.Warn("haptics not supported")
		return ErrUnsupported
	}

	engine, err := m.device.NewEngine()
	if err != nil {
		m.log.WithError(err).Error("could not create haptic engine")
		return fmt.Errorf("create engine: %w", err)
	}
	if err := engine.Start(); err != nil {
		m.log.WithError(err).Error("could not start haptic engine")
		m.release(engine)
		return fmt.Errorf("start engine: %w", err)
	}

	m.engine = engine
	m.log.Info("haptic engine created and started")
	return nil
}

// Available reports whether an engine handle is present.
func (m *Manager) Available() bool {
	return m.engine != nil
}

// Active returns the slot currently holding a handle.
func (m *Manager) Active() (Slot, bool) {
	for i, h := range m.slots {
		if h != nil {
			return Slot(i), true
		}
	}
	return 0, false
}

// HandleEvent applies an engine notification.
func (m *Manager) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventStopped:
		// A queued event can trail a play that already resumed the engine;
		// its handles are live and must be stopped.
		m.log.WithField("reason", ev.Reason).Info("engine stopped, stopping players")
		m.StopAll()

	case EventReset:
		if m.engine == nil {
			return
		}
		m.log.Info("engine reset, restarting")
		if err := m.engine.Start(); err != nil {
			m.log.WithError(err).Error("could not restart engine, haptics disabled")
			m.StopAll()
			m.release(m.engine)
			m.engine = nil
			return
		}
		m.log.Info("engine restarted")

	default:
		m.log.WithField("event", ev.String()).Debug("ignoring engine event")
	}
}

// PlaySlotA plays the first pattern.
func (m *Manager) PlaySlotA() { m.Play(SlotA) }

// PlaySlotB plays the second pattern.
func (m *Manager) PlaySlotB() { m.Play(SlotB) }

// Play starts the slot's pattern once, stopping every other slot first.
// Failures are logged and leave the slot empty.
func (m *Manager) Play(slot Slot) {
	if !slot.Valid() {
		m.log.WithField("slot", int(slot)).Warn("play on unknown slot")
		return
	}
	log := m.log.WithFields(logrus.Fields{"slot": slot.String(), "pattern": m.patterns[slot]})
	if m.engine == nil {
		log.Warn("engine not available")
		return
	}

	for _, other := range othersOf(slot) {
		m.Stop(other)
	}
	m.Stop(slot)

	if err := m.start(slot); err != nil {
		m.slots[slot] = nil
		log.WithError(err).Error("could not play pattern")
	}
}

func (m *Manager) start(slot Slot) error {
	name := m.patterns[slot]
	pattern, err := m.source.Load(name)
	if err != nil {
		return fmt.Errorf("load pattern %q: %w", name, err)
	}

	player, err := m.engine.NewPlayer(pattern)
	if err != nil {
		return fmt.Errorf("create player for %s: %w", pattern.File, err)
	}

	h := &handle{id: uuid.NewString(), pattern: name, player: player}
	m.slots[slot] = h
	if err := player.Start(); err != nil {
		return fmt.Errorf("start player for %s: %w", pattern.File, err)
	}

	fields := logrus.Fields{
		"slot":    slot.String(),
		"pattern": name,
		"handle":  h.id,
	}
	if d, ok := player.(interface{ Duration() time.Duration }); ok {
		fields["duration"] = d.Duration()
	}
	m.log.WithFields(fields).Debug("pattern started")
	return nil
}

// Stop clears the slot and asks its handle to stop. Stop errors are logged;
// the slot is empty either way.
func (m *Manager) Stop(slot Slot) {
	if !slot.Valid() {
		return
	}
	h := m.slots[slot]
	if h == nil {
		return
	}
	m.slots[slot] = nil

	log := m.log.WithFields(logrus.Fields{"slot": slot.String(), "handle": h.id})
	if err := h.player.Stop(); err != nil {
		log.WithError(err).Warn("could not stop player")
		return
	}
	log.Debug("player stopped")
}

// StopAll stops every slot, whether or not an engine is present.
func (m *Manager) StopAll() {
	m.log.Debug("stopping all players")
	for i := 0; i < NumSlots; i++ {
		m.Stop(Slot(i))
	}
}

// Close stops all playback and releases the engine.
func (m *Manager) Close() {
	m.StopAll()
	if m.engine == nil {
		return
	}
	m.release(m.engine)
	m.engine = nil
}

// release stops an engine the manager no longer holds.
func (m *Manager) release(engine Engine) {
	if err := engine.Stop(); err != nil {
		m.log.WithError(err).Warn("could not stop engine")
	}
}
