// Tribes: shared stockpiles, pooled knowledge, and stances toward other tribes.
package social

import (
	"github.com/talgya/tribe-world/internal/economy"
	"github.com/talgya/tribe-world/internal/scalar"
	"github.com/talgya/tribe-world/internal/tech"
)

// TribeID is a unique identifier for a tribe.
type TribeID uint64

// Tribe is the aggregate a group of agents works for.
type Tribe struct {
	ID   TribeID `json:"id"`
	Name string  `json:"name"`

	Resources     economy.Resources `json:"resources"`
	KnowledgePool float64           `json:"knowledge_pool"` // Unbounded; research may drive it negative

	// Discovered technologies. Absent means undiscovered.
	Discovered     map[tech.ID]bool `json:"-"`
	discoveryOrder []tech.ID

	// Attitude toward other tribes (tribe ID → -1.0 hostile to +1.0 allied).
	Attitude map[TribeID]float64 `json:"attitude"`
}

// NewTribe creates a tribe with the starting stockpile and no relations.
func NewTribe(id TribeID, name string) *Tribe {
	return &Tribe{
		ID:         id,
		Name:       name,
		Resources:  economy.StartingResources(),
		Discovered: make(map[tech.ID]bool),
		Attitude:   make(map[TribeID]float64),
	}
}

// Discover marks a technology as known. Rediscovery is a no-op.
func (t *Tribe) Discover(id tech.ID) {
	if t.Discovered[id] {
		return
	}
	t.Discovered[id] = true
	t.discoveryOrder = append(t.discoveryOrder, id)
}

// DiscoveredTech returns discovered technology ids in discovery order.
func (t *Tribe) DiscoveredTech() []tech.ID {
	out := make([]tech.ID, len(t.discoveryOrder))
	copy(out, t.discoveryOrder)
	return out
}

// Food returns the tribe's food stockpile.
func (t *Tribe) Food() float64 {
	return t.Resources.Get(economy.Food)
}

// AttitudeToward returns this tribe's view of another, 0.0 if never set.
func (t *Tribe) AttitudeToward(other TribeID) float64 {
	return t.Attitude[other]
}

// ShiftAttitude adds delta to this tribe's view of other, clamped to [-1, 1].
func (t *Tribe) ShiftAttitude(other TribeID, delta float64) float64 {
	v := scalar.Signed(t.AttitudeToward(other) + delta)
	t.Attitude[other] = v
	return v
}

// SetRelation sets a symmetric attitude between two tribes.
func SetRelation(a, b *Tribe, value float64) {
	a.Attitude[b.ID] = scalar.Signed(value)
	b.Attitude[a.ID] = scalar.Signed(value)
}

// ShiftRelation applies the same delta to both tribes' views of each other.
// Each side is clamped independently. Returns a's resulting view.
func ShiftRelation(a, b *Tribe, delta float64) float64 {
	v := a.ShiftAttitude(b.ID, delta)
	b.ShiftAttitude(a.ID, delta)
	return v
}
