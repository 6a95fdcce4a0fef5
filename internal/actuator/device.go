// Package actuator implements the haptics subsystem on top of the audio
// output. Pattern assets are short waveform files; playing one drives a
// voice-coil actuator, bass shaker or plain speaker wired to the output.
package actuator

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/olivier-w/heartbeat/internal/haptics"
	"github.com/sirupsen/logrus"
)

// Options configures a Device.
type Options struct {
	// Disabled makes the device report no haptic capability.
	Disabled bool
	// Gain is the playback volume, 0 to 1.
	Gain float64
	// IdleShutdown suspends the output after this long with nothing
	// playing. Zero disables it.
	IdleShutdown time.Duration
	// PollInterval is how often the output is checked for failures.
	PollInterval time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Gain:         1,
		IdleShutdown: 30 * time.Second,
		PollInterval: 200 * time.Millisecond,
	}
}

// Device is a haptics.Device backed by the process audio output.
type Device struct {
	opts   Options
	log    logrus.FieldLogger
	events chan haptics.Event

	// open returns the audio output; replaced in tests.
	open func() (output, error)

	mu      sync.Mutex
	engines []*Engine
}

// NewDevice returns a Device. The audio output is opened lazily by
// SupportsHaptics or NewEngine.
func NewDevice(opts Options, log logrus.FieldLogger) *Device {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	return &Device{
		opts:   opts,
		log:    log.WithField("component", "actuator"),
		events: make(chan haptics.Event, 8),
		open: func() (output, error) {
			ctx, err := initOto()
			if err != nil {
				return nil, err
			}
			return otoOutput{ctx: ctx}, nil
		},
	}
}

// Events returns the channel engine notifications are delivered on.
func (d *Device) Events() <-chan haptics.Event {
	return d.events
}

// SupportsHaptics reports whether an audio output is available.
func (d *Device) SupportsHaptics() bool {
	if d.opts.Disabled {
		return false
	}
	if _, err := d.open(); err != nil {
		d.log.WithError(err).Warn("no audio output for actuator")
		return false
	}
	return true
}

// NewEngine returns a stopped engine on the audio output. The engine watches
// the output while started.
func (d *Device) NewEngine() (haptics.Engine, error) {
	if d.opts.Disabled {
		return nil, haptics.ErrUnsupported
	}
	out, err := d.open()
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}

	e := newEngine(out, d.opts, d.notify, d.log)
	d.mu.Lock()
	d.engines = append(d.engines, e)
	d.mu.Unlock()
	return e, nil
}

// Close stops every engine's watcher. Events is not closed.
func (d *Device) Close() {
	d.mu.Lock()
	engines := d.engines
	d.engines = nil
	d.mu.Unlock()
	for _, e := range engines {
		e.close()
	}
}

// notify delivers ev without blocking the watcher. Events that do not fit
// are dropped.
func (d *Device) notify(ev haptics.Event) {
	select {
	case d.events <- ev:
	default:
		d.log.WithField("event", ev.String()).Warn("event queue full, dropping event")
	}
}
