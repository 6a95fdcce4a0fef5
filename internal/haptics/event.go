package haptics

import "fmt"

// EventKind identifies an engine notification.
type EventKind int

const (
	// EventStopped means the engine halted; existing handles are invalid.
	EventStopped EventKind = iota + 1
	// EventReset means the engine lost its state and must be restarted.
	EventReset
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStopped:
		return "stopped"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Stop reasons reported with EventStopped.
const (
	ReasonIdle         = "idle"
	ReasonAudioFailure = "audio output failure"
)

// Event is an engine notification delivered to Manager.HandleEvent.
type Event struct {
	Kind   EventKind
	Reason string
}

func (e Event) String() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s (%s)", e.Kind, e.Reason)
}
