// Package timeline provides the bounded chronological log of world events.
package timeline

// DefaultCapacity is the number of events a timeline keeps.
const DefaultCapacity = 200

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
}

// Timeline keeps the most recent events, oldest first.
type Timeline struct {
	capacity int
	events   []Event
}

// New creates a timeline holding at most capacity events.
// A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Timeline {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Timeline{
		capacity: capacity,
		events:   make([]Event, 0, capacity),
	}
}

// Add appends an event, dropping the oldest when at capacity.
func (t *Timeline) Add(tick uint64, description string) {
	if len(t.events) >= t.capacity {
		copy(t.events, t.events[1:])
		t.events = t.events[:len(t.events)-1]
	}
	t.events = append(t.events, Event{Tick: tick, Description: description})
}

// Events returns a copy of the retained events in chronological order.
func (t *Timeline) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Len returns the number of retained events.
func (t *Timeline) Len() int {
	return len(t.events)
}

// Capacity returns the maximum number of retained events.
func (t *Timeline) Capacity() int {
	return t.capacity
}
