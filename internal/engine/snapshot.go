// Snapshot export: a detached, serializable copy of the whole world.
package engine

import (
	"gonum.org/v1/gonum/stat"

	"github.com/talgya/tribe-world/internal/agents"
	"github.com/talgya/tribe-world/internal/economy"
	"github.com/talgya/tribe-world/internal/social"
	"github.com/talgya/tribe-world/internal/tech"
	"github.com/talgya/tribe-world/internal/timeline"
	"github.com/talgya/tribe-world/internal/weather"
)

// Snapshot is the full world state at a tick boundary. Field names and
// nesting are the persisted format; change them only with a migration.
type Snapshot struct {
	Tick     uint64           `json:"tick"`
	Weather  weather.Weather  `json:"weather"`
	Tribes   []TribeState     `json:"tribes"`
	Agents   []AgentState     `json:"agents"`
	Timeline []timeline.Event `json:"timeline"`
}

// TribeState is a tribe as it appears in a snapshot.
type TribeState struct {
	ID             social.TribeID             `json:"id"`
	Name           string                     `json:"name"`
	Resources      economy.Resources          `json:"resources"`
	KnowledgePool  float64                    `json:"knowledge_pool"`
	DiscoveredTech []tech.ID                  `json:"discovered_tech"`
	Attitude       map[social.TribeID]float64 `json:"attitude"`
}

// AgentState is an agent as it appears in a snapshot.
type AgentState struct {
	ID              agents.AgentID `json:"id"`
	Name            string         `json:"name"`
	TribeID         social.TribeID `json:"tribe_id"`
	Aggression      float64        `json:"aggression"`
	Curiosity       float64        `json:"curiosity"`
	Cooperativeness float64        `json:"cooperativeness"`
	Hunger          float64        `json:"hunger"`
	Fatigue         float64        `json:"fatigue"`
	Happiness       float64        `json:"happiness"`
	Alive           bool           `json:"alive"`
}

// Snapshot exports the current state. It has no side effects and shares no
// memory with the world.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:     w.tick,
		Weather:  w.weather,
		Tribes:   make([]TribeState, 0, len(w.tribes)),
		Agents:   make([]AgentState, 0, len(w.agents)),
		Timeline: w.timeline.Events(),
	}

	for _, t := range w.tribes {
		attitude := make(map[social.TribeID]float64, len(t.Attitude))
		for k, v := range t.Attitude {
			attitude[k] = v
		}
		s.Tribes = append(s.Tribes, TribeState{
			ID:             t.ID,
			Name:           t.Name,
			Resources:      t.Resources.Clone(),
			KnowledgePool:  t.KnowledgePool,
			DiscoveredTech: t.DiscoveredTech(),
			Attitude:       attitude,
		})
	}

	for _, a := range w.agents {
		s.Agents = append(s.Agents, AgentState{
			ID:              a.ID,
			Name:            a.Name,
			TribeID:         a.TribeID,
			Aggression:      a.Aggression,
			Curiosity:       a.Curiosity,
			Cooperativeness: a.Cooperativeness,
			Hunger:          a.Hunger,
			Fatigue:         a.Fatigue,
			Happiness:       a.Happiness,
			Alive:           a.Alive,
		})
	}

	return s
}

// Tribe finds a tribe in the snapshot.
func (s *Snapshot) Tribe(id social.TribeID) (TribeState, bool) {
	for _, t := range s.Tribes {
		if t.ID == id {
			return t, true
		}
	}
	return TribeState{}, false
}

// Agent finds an agent in the snapshot.
func (s *Snapshot) Agent(id agents.AgentID) (AgentState, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentState{}, false
}

// PopulationStats summarizes a group of agents.
type PopulationStats struct {
	Alive         int     `json:"alive"`
	Dead          int     `json:"dead"`
	MeanHunger    float64 `json:"mean_hunger"`    // Living agents only
	MeanFatigue   float64 `json:"mean_fatigue"`   // Living agents only
	MeanHappiness float64 `json:"mean_happiness"` // Living agents only
}

// Population summarizes every agent.
func (s *Snapshot) Population() PopulationStats {
	return s.population(func(AgentState) bool { return true })
}

// TribePopulation summarizes the members of one tribe.
func (s *Snapshot) TribePopulation(id social.TribeID) PopulationStats {
	return s.population(func(a AgentState) bool { return a.TribeID == id })
}

func (s *Snapshot) population(include func(AgentState) bool) PopulationStats {
	var ps PopulationStats
	var hunger, fatigue, happiness []float64
	for _, a := range s.Agents {
		if !include(a) {
			continue
		}
		if !a.Alive {
			ps.Dead++
			continue
		}
		ps.Alive++
		hunger = append(hunger, a.Hunger)
		fatigue = append(fatigue, a.Fatigue)
		happiness = append(happiness, a.Happiness)
	}
	if ps.Alive > 0 {
		ps.MeanHunger = stat.Mean(hunger, nil)
		ps.MeanFatigue = stat.Mean(fatigue, nil)
		ps.MeanHappiness = stat.Mean(happiness, nil)
	}
	return ps
}
