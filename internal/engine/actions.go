// Action application: the world turns an agent's decision into effects on
// the agent and its tribe.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/tribe-world/internal/agents"
	"github.com/talgya/tribe-world/internal/economy"
)

// Yield ranges per action (uniform draws).
const (
	ForageFoodMin   = 0.5
	ForageFoodMax   = 2.0
	ExploreKnowMin  = 0.1
	ExploreKnowMax  = 0.5
	ResearchKnowMin = 0.2
	ResearchKnowMax = 0.6
	WorkFoodMin     = 0.5
	WorkFoodMax     = 1.5
)

func (w *World) handleAction(a *agents.Agent) {
	action := agents.Decide(a, w.rng)

	tribe, ok := w.tribeIndex[a.TribeID]
	if !ok {
		slog.Warn("agent has no tribe", "agent", a.Name, "tribe", a.TribeID)
		return
	}

	switch action {
	case agents.ActionForage:
		food := w.rng.Uniform(ForageFoodMin, ForageFoodMax) * w.weather.FoodModifier
		tribe.Resources.Add(economy.Food, food)
		agents.Eat(a, agents.ForageHungerRelief)
		agents.Remember(a, w.tick, fmt.Sprintf("Foraged and brought back %.1f food.", food))

	case agents.ActionRest:
		agents.Recover(a, agents.RestFatigueRelief)
		agents.Remember(a, w.tick, "Rested to recover energy.")

	case agents.ActionExplore:
		gained := w.rng.Uniform(ExploreKnowMin, ExploreKnowMax)
		tribe.KnowledgePool += gained
		agents.Remember(a, w.tick, fmt.Sprintf("Explored the area and gained %.2f knowledge.", gained))

	case agents.ActionWorkForTribe:
		if agents.PrefersResearch(a) {
			gained := w.rng.Uniform(ResearchKnowMin, ResearchKnowMax)
			tribe.KnowledgePool += gained
			agents.Remember(a, w.tick, fmt.Sprintf("Researched and gained %.2f knowledge for the tribe.", gained))
		} else {
			food := w.rng.Uniform(WorkFoodMin, WorkFoodMax)
			tribe.Resources.Add(economy.Food, food)
			agents.Remember(a, w.tick, fmt.Sprintf("Worked for tribe and added %.1f food.", food))
		}

	case agents.ActionIdle:
		agents.Remember(a, w.tick, "Idled and observed the surroundings.")
	}
}
