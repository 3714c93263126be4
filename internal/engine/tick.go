package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/tribe-world/internal/agents"
	"github.com/talgya/tribe-world/internal/weather"
)

// TicksPerYear is the milestone cadence of the timeline.
const TicksPerYear = 20

// TickWorld advances the world by exactly one tick. The order of the passes,
// and of the random draws inside them, is fixed so that seeded runs replay
// identically.
func (w *World) TickWorld() {
	w.tick++

	w.updateWeather()

	for _, a := range w.agents {
		wasAlive := a.Alive
		agents.DecayNeeds(a)
		if !a.Alive {
			if wasAlive {
				last := ""
				if m := agents.RecentMemories(a, 1); len(m) > 0 {
					last = m[0].Description
				}
				slog.Debug("agent died", "tick", w.tick, "agent", a.Name, "tribe", a.TribeID, "last_memory", last)
			}
			continue
		}
		w.handleAction(a)
	}

	w.consumeFood()
	w.researchTech()
	w.diplomacyStep()

	if w.tick%TicksPerYear == 0 {
		w.timeline.Add(w.tick, fmt.Sprintf("Year %d has passed under %s skies.", w.tick/TicksPerYear, w.weather.Name))
	}
}

func (w *World) updateWeather() {
	w.weather = weather.Sample(w.rng.Float())
}
