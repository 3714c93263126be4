// Agent spawning: creates the founding population of each tribe.
package agents

import (
	"fmt"

	"github.com/talgya/tribe-world/internal/social"
)

// Personality ranges drawn at spawn.
const (
	AggressionMin      = 0.1
	AggressionMax      = 0.9
	CuriosityMin       = 0.2
	CuriosityMax       = 0.9
	CooperativenessMin = 0.2
	CooperativenessMax = 0.9
)

// UniformSource supplies ranged uniform draws.
type UniformSource interface {
	Uniform(lo, hi float64) float64
}

// Spawner creates agents with sequential ids. It draws from the world's
// source so that founding the population is part of the seeded sequence.
type Spawner struct {
	src    UniformSource
	nextID AgentID
}

// NewSpawner creates a spawner whose first agent gets id 1.
func NewSpawner(src UniformSource) *Spawner {
	return &Spawner{src: src, nextID: 1}
}

// SpawnTribe creates count agents belonging to tribe.
func (s *Spawner) SpawnTribe(tribe social.TribeID, count int) []*Agent {
	out := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.spawnOne(tribe))
	}
	return out
}

func (s *Spawner) spawnOne(tribe social.TribeID) *Agent {
	id := s.nextID
	s.nextID++

	// Draw order is part of the seeded sequence: aggression, curiosity, cooperativeness.
	aggression := s.src.Uniform(AggressionMin, AggressionMax)
	curiosity := s.src.Uniform(CuriosityMin, CuriosityMax)
	cooperativeness := s.src.Uniform(CooperativenessMin, CooperativenessMax)

	return New(id, fmt.Sprintf("Agent_%d", id), tribe, aggression, curiosity, cooperativeness)
}
