// Diplomacy: attitudes between tribes drift at random, one pair per tick.
package engine

import (
	"fmt"

	"github.com/talgya/tribe-world/internal/social"
)

// Diplomacy tuning.
const (
	AttitudeDrift     = 0.05 // Max absolute change per tick
	AllianceThreshold = 0.7
	TensionThreshold  = -0.7
)

// diplomacyStep picks two distinct tribes and nudges their mutual attitude by
// the same delta on both sides. Only the first tribe's view is checked for
// alliance or tension.
func (w *World) diplomacyStep() {
	if len(w.tribes) < 2 {
		return
	}

	i, j := w.rng.Pair(len(w.tribes))
	a, b := w.tribes[i], w.tribes[j]

	delta := w.rng.Uniform(-AttitudeDrift, AttitudeDrift)
	view := social.ShiftRelation(a, b, delta)

	if view > AllianceThreshold {
		w.timeline.Add(w.tick, fmt.Sprintf("%s and %s are close allies.", a.Name, b.Name))
	}
	if view < TensionThreshold {
		w.timeline.Add(w.tick, fmt.Sprintf("Tension rises between %s and %s.", a.Name, b.Name))
	}
}
