package agents

import "github.com/talgya/tribe-world/internal/scalar"

// Per-tick need drift.
const (
	HungerPerTick      = 0.05
	FatiguePerTick     = 0.03
	HappinessStrain    = 0.02 // Happiness lost per unit of hunger+fatigue
	ForageHungerRelief = 0.4
	RestFatigueRelief  = 0.5
	ShortageHunger     = 0.2 // Added to every living member when the tribe cannot eat
)

// DecayNeeds applies one tick of need drift. Dead agents are untouched.
// An agent whose hunger and fatigue both reach 1.0 dies.
func DecayNeeds(a *Agent) {
	if !a.Alive {
		return
	}

	a.Hunger = min(1.0, a.Hunger+HungerPerTick)
	a.Fatigue = min(1.0, a.Fatigue+FatiguePerTick)

	a.Happiness -= HappinessStrain * (a.Hunger + a.Fatigue)
	a.Happiness = scalar.Unit(a.Happiness)

	// Uses this tick's updated values.
	if a.Hunger >= 1.0 && a.Fatigue >= 1.0 {
		a.Alive = false
	}
}

// Eat lowers hunger, floored at zero.
func Eat(a *Agent, relief float64) {
	a.Hunger = max(0.0, a.Hunger-relief)
}

// Recover lowers fatigue, floored at zero.
func Recover(a *Agent, relief float64) {
	a.Fatigue = max(0.0, a.Fatigue-relief)
}

// Starve raises hunger, capped at one.
func Starve(a *Agent, amount float64) {
	a.Hunger = min(1.0, a.Hunger+amount)
}
