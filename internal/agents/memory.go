// Agent memory stream: a short chronological record of what the agent did.
package agents

// MaxMemories is the memory capacity. Once full, the oldest entry is dropped
// before a new one is appended.
const MaxMemories = 33

// MemoryEvent records one thing an agent did.
type MemoryEvent struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
}

// Remember appends a memory, evicting the oldest when at capacity.
func Remember(a *Agent, tick uint64, description string) {
	if len(a.Memories) >= MaxMemories {
		copy(a.Memories, a.Memories[1:])
		a.Memories = a.Memories[:len(a.Memories)-1]
	}
	a.Memories = append(a.Memories, MemoryEvent{Tick: tick, Description: description})
}

// RecentMemories returns up to count of the newest memories, oldest first.
func RecentMemories(a *Agent, count int) []MemoryEvent {
	if count > len(a.Memories) {
		count = len(a.Memories)
	}
	if count <= 0 {
		return nil
	}
	out := make([]MemoryEvent, count)
	copy(out, a.Memories[len(a.Memories)-count:])
	return out
}
