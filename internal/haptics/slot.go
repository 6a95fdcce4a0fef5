package haptics

// Slot is one of the playback ownership points.
type Slot int

const (
	SlotA Slot = iota
	SlotB

	// NumSlots is the number of playback slots.
	NumSlots = 2
)

// String returns the slot name.
func (s Slot) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return "?"
	}
}

// Valid reports whether s names an existing slot.
func (s Slot) Valid() bool {
	return s >= 0 && int(s) < NumSlots
}

// othersOf returns every slot that must be stopped before s starts.
// At most one slot holds a handle once Play returns.
func othersOf(s Slot) []Slot {
	others := make([]Slot, 0, NumSlots-1)
	for i := 0; i < NumSlots; i++ {
		if Slot(i) != s {
			others = append(others, Slot(i))
		}
	}
	return others
}

// handle is a started (or starting) playback in a slot.
type handle struct {
	id      string
	pattern string
	player  Player
}
