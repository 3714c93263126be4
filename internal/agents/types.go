// Package agents provides the agent data model, needs decay, and the
// rule-based action decision each living agent makes once per tick.
package agents

import (
	"github.com/talgya/tribe-world/internal/social"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Agent is a member of a tribe. It decides its own action each tick; the
// world applies that action's effects to the tribe.
type Agent struct {
	ID      AgentID        `json:"id"`
	Name    string         `json:"name"`
	TribeID social.TribeID `json:"tribe_id"` // Lookup key into the world's tribes, never owned

	// Personality, 0.0–1.0, fixed at creation.
	Aggression      float64 `json:"aggression"`
	Curiosity       float64 `json:"curiosity"`
	Cooperativeness float64 `json:"cooperativeness"`

	// Needs state, 0.0–1.0.
	Hunger    float64 `json:"hunger"`
	Fatigue   float64 `json:"fatigue"`
	Happiness float64 `json:"happiness"`

	// Knowledge topic → level. Carried as state; no rule reads it yet.
	Knowledge map[string]float64 `json:"knowledge,omitempty"`

	Memories []MemoryEvent `json:"memories,omitempty"`

	Alive bool `json:"alive"`
}

// New creates a living agent with neutral needs.
func New(id AgentID, name string, tribe social.TribeID, aggression, curiosity, cooperativeness float64) *Agent {
	return &Agent{
		ID:              id,
		Name:            name,
		TribeID:         tribe,
		Aggression:      aggression,
		Curiosity:       curiosity,
		Cooperativeness: cooperativeness,
		Happiness:       0.5,
		Knowledge:       make(map[string]float64),
		Alive:           true,
	}
}
