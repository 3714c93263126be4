package agents

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tribe-world/internal/entropy"
)

// scripted returns fixed draws in order and counts how many were taken.
type scripted struct {
	values []float64
	taken  int
}

func (s *scripted) Float() float64 {
	v := s.values[s.taken]
	s.taken++
	return v
}

func newTestAgent() *Agent {
	return New(1, "Agent_1", 1, 0.5, 0.5, 0.5)
}

func TestNewAgentDefaults(t *testing.T) {
	a := newTestAgent()
	assert.True(t, a.Alive)
	assert.Equal(t, 0.0, a.Hunger)
	assert.Equal(t, 0.0, a.Fatigue)
	assert.Equal(t, 0.5, a.Happiness)
	assert.NotNil(t, a.Knowledge)
}

func TestDecayNeeds(t *testing.T) {
	a := newTestAgent()
	DecayNeeds(a)

	assert.InDelta(t, 0.05, a.Hunger, 1e-12)
	assert.InDelta(t, 0.03, a.Fatigue, 1e-12)
	assert.InDelta(t, 0.5-0.02*0.08, a.Happiness, 1e-12)
	assert.True(t, a.Alive)
}

func TestDecayNeedsClamps(t *testing.T) {
	a := newTestAgent()
	a.Hunger = 0.98
	a.Fatigue = 0.5
	a.Happiness = 0.01
	DecayNeeds(a)

	assert.Equal(t, 1.0, a.Hunger)
	assert.Equal(t, 0.0, a.Happiness)
	assert.True(t, a.Alive, "fatigue below 1.0 keeps the agent alive")
}

func TestDecayNeedsKills(t *testing.T) {
	a := newTestAgent()
	a.Hunger = 0.96
	a.Fatigue = 0.98
	DecayNeeds(a)

	assert.False(t, a.Alive)
	assert.Equal(t, 1.0, a.Hunger)
	assert.Equal(t, 1.0, a.Fatigue)
}

func TestDecayNeedsDeadIsInert(t *testing.T) {
	a := newTestAgent()
	a.Alive = false
	a.Hunger = 0.3
	DecayNeeds(a)
	assert.Equal(t, 0.3, a.Hunger)
	assert.Equal(t, 0.0, a.Fatigue)
	assert.Equal(t, 0.5, a.Happiness)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		dead    bool
		hunger  float64
		fatigue float64
		draws   []float64
		want    ActionKind
		wantN   int
	}{
		{"dead", true, 0, 0, nil, ActionDead, 0},
		{"hungry forages", false, 0.71, 0, nil, ActionForage, 0},
		{"hunger at threshold does not forage", false, 0.7, 0, []float64{0.1}, ActionExplore, 1},
		{"tired rests", false, 0, 0.81, nil, ActionRest, 0},
		{"hunger beats fatigue", false, 0.9, 0.9, nil, ActionForage, 0},
		{"curious explores", false, 0, 0, []float64{0.49}, ActionExplore, 1},
		{"cooperative works", false, 0, 0, []float64{0.5, 0.2}, ActionWorkForTribe, 2},
		{"neither idles", false, 0, 0, []float64{0.9, 0.9}, ActionIdle, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAgent()
			a.Alive = !tt.dead
			a.Hunger = tt.hunger
			a.Fatigue = tt.fatigue
			r := &scripted{values: tt.draws}
			assert.Equal(t, tt.want, Decide(a, r))
			assert.Equal(t, tt.wantN, r.taken, "draws consumed")
		})
	}
}

func TestActionKindString(t *testing.T) {
	assert.Equal(t, "work_for_tribe", ActionWorkForTribe.String())
	assert.Equal(t, "dead", ActionDead.String())
	assert.Equal(t, "unknown", ActionKind(200).String())
}

func TestEatRecoverStarve(t *testing.T) {
	a := newTestAgent()
	a.Hunger = 0.3
	Eat(a, ForageHungerRelief)
	assert.Equal(t, 0.0, a.Hunger)

	a.Fatigue = 0.9
	Recover(a, RestFatigueRelief)
	assert.InDelta(t, 0.4, a.Fatigue, 1e-12)

	a.Hunger = 0.9
	Starve(a, ShortageHunger)
	assert.Equal(t, 1.0, a.Hunger)
}

func TestRememberEvictsOldest(t *testing.T) {
	a := newTestAgent()
	for i := 0; i < 100; i++ {
		Remember(a, uint64(i), fmt.Sprintf("event %d", i))
		require.LessOrEqual(t, len(a.Memories), MaxMemories)
	}

	require.Len(t, a.Memories, MaxMemories)
	assert.Equal(t, uint64(100-MaxMemories), a.Memories[0].Tick)
	assert.Equal(t, "event 99", a.Memories[MaxMemories-1].Description)
	for i := 1; i < len(a.Memories); i++ {
		assert.Less(t, a.Memories[i-1].Tick, a.Memories[i].Tick)
	}
}

func TestRecentMemories(t *testing.T) {
	a := newTestAgent()
	assert.Nil(t, RecentMemories(a, 5))

	for i := 0; i < 4; i++ {
		Remember(a, uint64(i), "x")
	}
	recent := RecentMemories(a, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, uint64(2), recent[0].Tick)
	assert.Equal(t, uint64(3), recent[1].Tick)
	assert.Len(t, RecentMemories(a, 10), 4)
}

func TestSpawnerSequentialIDs(t *testing.T) {
	s := NewSpawner(entropy.New(1))
	first := s.SpawnTribe(1, 5)
	second := s.SpawnTribe(2, 5)

	require.Len(t, first, 5)
	require.Len(t, second, 5)
	assert.Equal(t, AgentID(1), first[0].ID)
	assert.Equal(t, "Agent_6", second[0].Name)
	assert.Equal(t, AgentID(10), second[4].ID)

	for _, a := range append(first, second...) {
		assert.True(t, a.Aggression >= AggressionMin && a.Aggression < AggressionMax)
		assert.True(t, a.Curiosity >= CuriosityMin && a.Curiosity < CuriosityMax)
		assert.True(t, a.Cooperativeness >= CooperativenessMin && a.Cooperativeness < CooperativenessMax)
	}
	assert.EqualValues(t, 2, second[4].TribeID)
}

func TestSpawnerDeterministic(t *testing.T) {
	a := NewSpawner(entropy.New(123)).SpawnTribe(1, 3)
	b := NewSpawner(entropy.New(123)).SpawnTribe(1, 3)
	assert.Equal(t, a, b)
}
