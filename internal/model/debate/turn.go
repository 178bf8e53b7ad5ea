package debate

import "time"

// Turn records one completed exchange. Turns are immutable once appended to
// a log: the orchestrator assigns Number starting at 1 and never rewrites
// history.
type Turn struct {
	Number             int       `json:"turn"`
	Speaker            string    `json:"speaker"`
	Role               string    `json:"role"`
	Content            string    `json:"content"`
	TokensUsed         int       `json:"tokensUsed"`
	LatencyMS          float64   `json:"latencyMs"`
	DisagreementEnergy float64   `json:"disagreementEnergy"`
	Cruxes             []string  `json:"cruxes"`
	Timestamp          time.Time `json:"timestamp"`
}
