// Package tech provides the technology prerequisite graph and the research
// eligibility query tribes use each tick.
package tech

import "github.com/talgya/tribe-world/internal/economy"

// ID identifies a technology.
type ID string

// Technology is an immutable node of the tree.
type Technology struct {
	ID            ID                `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description" yaml:"description"`
	Prerequisites []ID              `json:"prerequisites" yaml:"prerequisites"`
	Cost          float64           `json:"cost" yaml:"cost"` // Knowledge consumed on discovery
	Bonus         economy.Resources `json:"bonus,omitempty" yaml:"bonus"`
}

// Tree maps id → technology. Iteration follows first insertion order.
// No cycle detection is done; the tree is assumed acyclic.
type Tree struct {
	order []ID
	techs map[ID]Technology
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{techs: make(map[ID]Technology)}
}

// Add registers a technology. Re-adding an id replaces it in place.
func (t *Tree) Add(tech Technology) {
	if _, ok := t.techs[tech.ID]; !ok {
		t.order = append(t.order, tech.ID)
	}
	t.techs[tech.ID] = tech
}

// Get looks up a technology by id.
func (t *Tree) Get(id ID) (Technology, bool) {
	tech, ok := t.techs[id]
	return tech, ok
}

// Len returns the number of registered technologies.
func (t *Tree) Len() int {
	return len(t.order)
}

// All returns every technology in tree order.
func (t *Tree) All() []Technology {
	out := make([]Technology, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.techs[id])
	}
	return out
}

// AvailableToResearch returns the undiscovered technologies whose
// prerequisites are all discovered and whose cost the pool covers, in tree
// order. A prerequisite that was never registered can never be discovered,
// so it blocks its dependents permanently.
func (t *Tree) AvailableToResearch(discovered map[ID]bool, knowledgePool float64) []Technology {
	var out []Technology
	for _, id := range t.order {
		tech := t.techs[id]
		if discovered[tech.ID] {
			continue
		}
		if !prerequisitesMet(tech, discovered) {
			continue
		}
		if knowledgePool >= tech.Cost {
			out = append(out, tech)
		}
	}
	return out
}

func prerequisitesMet(tech Technology, discovered map[ID]bool) bool {
	for _, pre := range tech.Prerequisites {
		if !discovered[pre] {
			return false
		}
	}
	return true
}
