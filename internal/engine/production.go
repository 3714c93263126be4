// Tribe-level passes run after every agent has acted: eating, then research.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/tribe-world/internal/agents"
	"github.com/talgya/tribe-world/internal/economy"
)

// FoodPerMember is what each living member eats per tick.
const FoodPerMember = 0.3

// consumeFood feeds every tribe from its stockpile. A tribe that cannot
// cover the whole demand eats nothing and all its living members go hungry.
func (w *World) consumeFood() {
	members := w.livingMembers()
	for _, tribe := range w.tribes {
		living := members[tribe.ID]
		demand := FoodPerMember * float64(len(living))

		if tribe.Food() >= demand {
			tribe.Resources.Add(economy.Food, -demand)
			continue
		}

		for _, a := range living {
			agents.Starve(a, agents.ShortageHunger)
		}
		slog.Debug("food shortage", "tick", w.tick, "tribe", tribe.Name, "food", tribe.Food(), "demand", demand)
	}
}

// researchTech lets each tribe discover at most one affordable technology.
// The cost is paid without a floor, so the pool may go negative.
func (w *World) researchTech() {
	for _, tribe := range w.tribes {
		candidates := w.techTree.AvailableToResearch(tribe.Discovered, tribe.KnowledgePool)
		if len(candidates) == 0 {
			continue
		}

		t := candidates[w.rng.Intn(len(candidates))]

		tribe.KnowledgePool -= t.Cost
		tribe.Discover(t.ID)
		w.timeline.Add(w.tick, fmt.Sprintf("%s discovered %s!", tribe.Name, t.Name))

		// One-time discovery bonus.
		tribe.Resources.Merge(t.Bonus)

		slog.Debug("technology discovered",
			"tick", w.tick,
			"tribe", tribe.Name,
			"tech", t.ID,
			"knowledge_left", tribe.KnowledgePool,
		)
	}
}
