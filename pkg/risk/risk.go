// Package risk describes the corridor risk levels 1 (lowest) to 4 (highest).
package risk

import "strconv"

// Factors names the four hazards assessed for every risk level
type Factors struct {
	HumanDisturbance    string `json:"Human Disturbance"`
	PredatorPresence    string `json:"Predator Presence"`
	EnvironmentalHazard string `json:"Environmental Hazard"`
	PhysicalBarrier     string `json:"Physical Barrier"`
}

// Level describes one risk level
type Level struct {
	Description string  `json:"description"`
	Factors     Factors `json:"factors"`
}

var levels = [...]Level{
	{
		Description: "Very Low Risk – Minimal disturbance and excellent ecological conditions",
		Factors: Factors{
			HumanDisturbance:    "Minimal human presence, little to no impact.",
			PredatorPresence:    "Low or negligible predator activity.",
			EnvironmentalHazard: "No significant hazards detected.",
			PhysicalBarrier:     "Corridor is open and clear.",
		},
	},
	{
		Description: "Low to Moderate Risk – Some environmental concerns but still relatively safe",
		Factors: Factors{
			HumanDisturbance:    "Limited human activities causing minor disturbance.",
			PredatorPresence:    "Occasional predator sightings.",
			EnvironmentalHazard: "Some localized hazards present.",
			PhysicalBarrier:     "Minor obstacles in the corridor.",
		},
	},
	{
		Description: "Moderate to High Risk – Noticeable hazards or disruption in the corridor",
		Factors: Factors{
			HumanDisturbance:    "Frequent human activity causing habitat disruption.",
			PredatorPresence:    "Regular predator presence posing threat.",
			EnvironmentalHazard: "Visible environmental hazards affecting wildlife.",
			PhysicalBarrier:     "Significant obstacles or partial barriers.",
		},
	},
	{
		Description: "High Risk – Significant disturbance or barriers present, risky for animal movement",
		Factors: Factors{
			HumanDisturbance:    "High human activity severely disrupting habitats.",
			PredatorPresence:    "Predators frequently present, high threat.",
			EnvironmentalHazard: "Severe environmental hazards like pollution or fire risk.",
			PhysicalBarrier:     "Major barriers preventing safe movement.",
		},
	},
}

// Lowest and Highest bound the documented risk levels
const (
	Lowest  = 1
	Highest = len(levels)
)

// Table returns every level keyed by its number as a string ("1".."4")
func Table() map[string]Level {
	t := make(map[string]Level, len(levels))
	for i, l := range levels {
		t[strconv.Itoa(i+1)] = l
	}
	return t
}

// Describe returns the level for a numeric risk, or false if undocumented
func Describe(risk int) (Level, bool) {
	if risk < Lowest || risk > Highest {
		return Level{}, false
	}
	return levels[risk-1], true
}
