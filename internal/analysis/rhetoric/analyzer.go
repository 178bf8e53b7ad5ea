// Package rhetoric scores debate turns with substring heuristics, the same
// way the emotion keyword buckets work: vocabularies are data, not
// conditionals, so they stay independently testable and extensible.
package rhetoric

import "strings"

// CruxTag opens a crux-question section in a turn.
const CruxTag = "[Crux-Question:]"

// baseline is the neutral disagreement energy assigned before any marker
// adjustments.
const baseline = 0.45

// counterMarkers reward active engagement with the opponent's position.
// Each marker contributes its weight once no matter how often it repeats.
var counterMarkers = map[string]float64{
	"however":           0.08,
	"but":               0.08,
	"although":          0.08,
	"disagree":          0.08,
	"challenge":         0.08,
	"counter":           0.08,
	"yet":               0.08,
	"on the other hand": 0.08,
}

// structuralMarkers reward explicit protocol moves.
var structuralMarkers = map[string]float64{
	"[steelman]":         0.06,
	"[meta-observation]": 0.04,
	"[crux-question]":    0.07,
}

// agreementMarkers penalise agreement without substance.
var agreementMarkers = map[string]float64{
	"i agree":       0.04,
	"exactly":       0.04,
	"correct":       0.04,
	"you are right": 0.04,
	"indeed":        0.04,
}

// ScoreDisagreementEnergy rates how much productive tension a turn carries,
// in [0.0, 1.0]. The score is a pure function of the turn text; priorTurns is
// accepted for future context-sensitive scoring but does not influence the
// result today.
func ScoreDisagreementEnergy(content string, priorTurns []string) float64 {
	_ = priorTurns

	energy := baseline
	text := strings.ToLower(content)

	for marker, weight := range counterMarkers {
		if strings.Contains(text, marker) {
			energy += weight
		}
	}
	for marker, weight := range structuralMarkers {
		if strings.Contains(text, marker) {
			energy += weight
		}
	}
	for marker, weight := range agreementMarkers {
		if strings.Contains(text, marker) {
			energy -= weight
		}
	}

	return clamp(energy)
}
