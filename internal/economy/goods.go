// Package economy defines the tribe-level resource topics and the resource bag
// tribes hold them in.
package economy

import "sort"

// Resource is a stockpile topic held by a tribe.
type Resource string

const (
	Food Resource = "food" // Consumed every tick by living members
	Wood Resource = "wood" // Stockpiled; no rule consumes it yet
)

// Resources maps a topic to an amount. Amounts are not floored; a stockpile
// may go negative.
type Resources map[Resource]float64

// StartingResources returns the stockpile every new tribe begins with.
func StartingResources() Resources {
	return Resources{
		Food: 20.0,
		Wood: 5.0,
	}
}

// Add increases (or with a negative amount, decreases) a topic.
func (r Resources) Add(topic Resource, amount float64) {
	r[topic] += amount
}

// Get returns the amount held for a topic, zero if never set.
func (r Resources) Get(topic Resource) float64 {
	return r[topic]
}

// Merge adds every amount in other into r.
func (r Resources) Merge(other Resources) {
	for _, topic := range other.Topics() {
		r[topic] += other[topic]
	}
}

// Clone returns an independent copy.
func (r Resources) Clone() Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Topics returns the topics present, sorted by name.
func (r Resources) Topics() []Resource {
	topics := make([]Resource, 0, len(r))
	for k := range r {
		topics = append(topics, k)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics
}
