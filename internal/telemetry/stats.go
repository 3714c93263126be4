// Package telemetry writes per-tribe statistics to CSV for offline analysis.
package telemetry

import (
	"github.com/talgya/tribe-world/internal/economy"
	"github.com/talgya/tribe-world/internal/engine"
)

// TribeStats is one tribe at one tick.
type TribeStats struct {
	Tick          uint64  `csv:"tick"`
	TribeID       uint64  `csv:"tribe_id"`
	TribeName     string  `csv:"tribe_name"`
	Food          float64 `csv:"food"`
	Wood          float64 `csv:"wood"`
	Knowledge     float64 `csv:"knowledge"`
	Discovered    int     `csv:"discovered"`
	Living        int     `csv:"living"`
	Dead          int     `csv:"dead"`
	MeanHunger    float64 `csv:"mean_hunger"`
	MeanHappiness float64 `csv:"mean_happiness"`
	Weather       string  `csv:"weather"`
}

// CollectTribes builds one row per tribe, in snapshot order.
func CollectTribes(snap *engine.Snapshot) []TribeStats {
	rows := make([]TribeStats, 0, len(snap.Tribes))
	for _, t := range snap.Tribes {
		pop := snap.TribePopulation(t.ID)
		rows = append(rows, TribeStats{
			Tick:          snap.Tick,
			TribeID:       uint64(t.ID),
			TribeName:     t.Name,
			Food:          t.Resources.Get(economy.Food),
			Wood:          t.Resources.Get(economy.Wood),
			Knowledge:     t.KnowledgePool,
			Discovered:    len(t.DiscoveredTech),
			Living:        pop.Alive,
			Dead:          pop.Dead,
			MeanHunger:    pop.MeanHunger,
			MeanHappiness: pop.MeanHappiness,
			Weather:       snap.Weather.Name,
		})
	}
	return rows
}
