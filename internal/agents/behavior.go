// Agent behavior: needs first, then personality.
// Every tick a living agent picks exactly one action; the world applies it.
package agents

// ActionKind enumerates what an agent can do in a tick.
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionForage
	ActionRest
	ActionExplore
	ActionWorkForTribe
	ActionDead
)

// Decision thresholds.
const (
	ForageHungerThreshold = 0.7
	RestFatigueThreshold  = 0.8
)

var actionNames = [...]string{
	ActionIdle:         "idle",
	ActionForage:       "forage",
	ActionRest:         "rest",
	ActionExplore:      "explore",
	ActionWorkForTribe: "work_for_tribe",
	ActionDead:         "dead",
}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Roller supplies uniform draws in [0, 1).
type Roller interface {
	Float() float64
}

// Decide picks this tick's action. Urgent needs win outright and consume no
// randomness. Otherwise one draw is tested against curiosity and, only if
// that fails, a second against cooperativeness.
func Decide(a *Agent, r Roller) ActionKind {
	if !a.Alive {
		return ActionDead
	}

	if a.Hunger > ForageHungerThreshold {
		return ActionForage
	}
	if a.Fatigue > RestFatigueThreshold {
		return ActionRest
	}

	if r.Float() < a.Curiosity {
		return ActionExplore
	}
	if r.Float() < a.Cooperativeness {
		return ActionWorkForTribe
	}
	return ActionIdle
}

// PrefersResearch reports whether tribe work goes to knowledge rather than food.
func PrefersResearch(a *Agent) bool {
	return a.Curiosity > a.Cooperativeness
}
