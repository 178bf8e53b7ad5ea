package debate

import "time"

// State tracks a session through its lifecycle.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateAborted    State = "aborted"
)

// ParticipantSnapshot is the generator-free view of a participant stored in
// the persisted config snapshot.
type ParticipantSnapshot struct {
	Role  string `json:"role"`
	Model string `json:"model"`
}

// ConfigSnapshot captures the session settings persisted with the log.
// Generator bindings are deliberately excluded.
type ConfigSnapshot struct {
	Topic        string                         `json:"topic"`
	MaxTurns     int                            `json:"maxTurns"`
	MaxTokens    int                            `json:"maxTokens"`
	Temperature  float64                        `json:"temperature"`
	Participants map[string]ParticipantSnapshot `json:"participants"`
	OutputDir    string                         `json:"outputDir"`
}

// Metadata aggregates per-turn telemetry across a session.
type Metadata struct {
	TotalTokens           int       `json:"totalTokens"`
	TotalLatencyMS        float64   `json:"totalLatencyMs"`
	AvgDisagreementEnergy float64   `json:"avgDisagreementEnergy"`
	EnergyHistory         []float64 `json:"energyHistory"`
}

// Log is the full session record: configuration snapshot, ordered turns and
// aggregate metadata. The orchestrator mutates it after every turn and
// finalizes it exactly once; after persistence it is never touched again.
type Log struct {
	Config    ConfigSnapshot `json:"config"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime,omitzero"`
	Turns     []Turn         `json:"turns"`
	Metadata  Metadata       `json:"metadata"`
}
