// Package haptics manages the haptic engine connection and the playback
// slots the demo buttons drive.
//
// The engine, its playback handles and the pattern file format belong to the
// Device implementation; this package only decides when handles are created,
// started and stopped.
package haptics

import "errors"

var (
	// ErrUnsupported is returned by Initialize when the device cannot produce
	// haptics.
	ErrUnsupported = errors.New("haptics not supported on this device")

	// ErrPatternNotFound is returned when no asset matches a logical name.
	ErrPatternNotFound = errors.New("pattern not found")
)

// Device is the platform haptics subsystem.
type Device interface {
	// SupportsHaptics reports whether the hardware can play patterns.
	SupportsHaptics() bool
	// NewEngine constructs an engine. The engine is not started.
	NewEngine() (Engine, error)
}

// Engine is a connection to the haptics subsystem.
type Engine interface {
	Start() error
	Stop() error
	// NewPlayer builds a single-shot playback handle for a pattern.
	NewPlayer(p Pattern) (Player, error)
}

// Player is a live reference to one pattern execution.
type Player interface {
	// Start begins playback immediately.
	Start() error
	// Stop halts playback immediately.
	Stop() error
}

// Pattern is a bundled pattern asset, read fresh from its source.
type Pattern struct {
	Name string // logical name, e.g. "heartbeat1"
	File string // file the data was read from
	Data []byte
}

// PatternSource resolves logical pattern names to asset data.
type PatternSource interface {
	Load(name string) (Pattern, error)
}
