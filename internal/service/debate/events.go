package debate

import modeldebate "github.com/mirrormax/backend/internal/model/debate"

// Event types emitted by the runner.
const (
	EventStatus    = "status"
	EventTurnStart = "turn_start"
	EventTurn      = "turn"
	EventComplete  = "complete"
)

// Event is one loop notification delivered to an Observer.
type Event struct {
	Type       string             `json:"type"`
	State      modeldebate.State  `json:"state"`
	TurnNumber int                `json:"turnNumber,omitempty"`
	Speaker    string             `json:"speaker,omitempty"`
	Role       string             `json:"role,omitempty"`
	Turn       *modeldebate.Turn  `json:"turnData,omitempty"`
	Outcome    *Outcome           `json:"-"`
}

// Observer receives runner events synchronously, in loop order.
type Observer func(Event)
