// Package weather provides the per-tick weather roll and its food modifier.
package weather

// Weather is the condition for one tick. It is replaced each tick, never mutated.
type Weather struct {
	Name         string  `json:"name"`
	FoodModifier float64 `json:"food_modifier"` // Multiplier on foraged food
}

var (
	Clear   = Weather{Name: "Clear", FoodModifier: 1.0}
	Rain    = Weather{Name: "Rain", FoodModifier: 1.2}
	Drought = Weather{Name: "Drought", FoodModifier: 0.5}
)

// band is an upper bound on the roll and the weather it selects.
type band struct {
	below   float64
	weather Weather
}

var table = []band{
	{0.70, Clear},
	{0.85, Rain},
}

// Sample maps a uniform roll in [0, 1) to a weather value.
func Sample(roll float64) Weather {
	for _, b := range table {
		if roll < b.below {
			return b.weather
		}
	}
	return Drought
}

// Initial is the weather a world starts with before its first tick.
func Initial() Weather {
	return Clear
}
