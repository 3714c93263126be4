// World ties together agents, tribes, weather, technology and the timeline,
// and advances them one tick at a time.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/tribe-world/internal/agents"
	"github.com/talgya/tribe-world/internal/config"
	"github.com/talgya/tribe-world/internal/entropy"
	"github.com/talgya/tribe-world/internal/social"
	"github.com/talgya/tribe-world/internal/tech"
	"github.com/talgya/tribe-world/internal/timeline"
	"github.com/talgya/tribe-world/internal/weather"
)

// World is the sole owner of all simulation state. It is not safe for
// concurrent use; observers read published Snapshots instead.
type World struct {
	tick uint64

	agents []*agents.Agent // id order, never reordered or shrunk

	tribes     []*social.Tribe // founding order
	tribeIndex map[social.TribeID]*social.Tribe

	weather  weather.Weather
	techTree *tech.Tree
	timeline *timeline.Timeline

	rng *entropy.Source
}

// NewWorld builds a world from cfg. Everything random about the founding
// population comes from cfg.Seed, so equal configs give equal worlds.
func NewWorld(cfg config.WorldConfig) *World {
	w := &World{
		tribeIndex: make(map[social.TribeID]*social.Tribe, len(cfg.Tribes)),
		weather:    weather.Initial(),
		techTree:   tech.NewTree(),
		timeline:   timeline.New(cfg.TimelineCapacity),
		rng:        entropy.New(cfg.Seed),
	}

	for _, t := range cfg.Technologies {
		w.techTree.Add(t)
	}

	w.initTribes(cfg.Tribes)
	w.initAgents(cfg.AgentsPerTribe)

	w.timeline.Add(w.tick, foundingMessage(w.tribes))

	slog.Debug("world created",
		"seed", cfg.Seed,
		"tribes", len(w.tribes),
		"agents", len(w.agents),
		"technologies", w.techTree.Len(),
	)
	return w
}

func (w *World) initTribes(tribes []config.TribeConfig) {
	for _, tc := range tribes {
		t := social.NewTribe(tc.ID, tc.Name)
		w.tribes = append(w.tribes, t)
		w.tribeIndex[t.ID] = t
	}

	// Every tribe starts neutral toward every other.
	for i, a := range w.tribes {
		for _, b := range w.tribes[i+1:] {
			social.SetRelation(a, b, 0.0)
		}
	}
}

func (w *World) initAgents(perTribe int) {
	spawner := agents.NewSpawner(w.rng)
	for _, t := range w.tribes {
		w.agents = append(w.agents, spawner.SpawnTribe(t.ID, perTribe)...)
	}
}

// Tick returns the number of ticks processed so far.
func (w *World) Tick() uint64 {
	return w.tick
}

// Seed returns the seed the world was built from.
func (w *World) Seed() int64 {
	return w.rng.Seed()
}

// Weather returns the current weather.
func (w *World) Weather() weather.Weather {
	return w.weather
}

// Tribe looks up a tribe by id.
func (w *World) Tribe(id social.TribeID) (*social.Tribe, bool) {
	t, ok := w.tribeIndex[id]
	return t, ok
}

// TechTree returns the world's technology tree.
func (w *World) TechTree() *tech.Tree {
	return w.techTree
}

// Timeline returns a copy of the retained world events.
func (w *World) Timeline() []timeline.Event {
	return w.timeline.Events()
}

// livingMembers groups living agents by tribe, preserving population order.
func (w *World) livingMembers() map[social.TribeID][]*agents.Agent {
	out := make(map[social.TribeID][]*agents.Agent, len(w.tribes))
	for _, a := range w.agents {
		if a.Alive {
			out[a.TribeID] = append(out[a.TribeID], a)
		}
	}
	return out
}

var countWords = [...]string{"No", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten"}

func foundingMessage(tribes []*social.Tribe) string {
	names := make([]string, 0, len(tribes))
	for _, t := range tribes {
		names = append(names, t.Name)
	}

	count := fmt.Sprintf("%d", len(names))
	if len(names) < len(countWords) {
		count = countWords[len(names)]
	}

	switch len(names) {
	case 0:
		return "World created. No tribes emerge."
	case 1:
		return fmt.Sprintf("World created. One tribe emerges: %s.", names[0])
	default:
		list := strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
		return fmt.Sprintf("World created. %s tribes emerge: %s.", count, list)
	}
}
