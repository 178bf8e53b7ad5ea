package participant

// Participant describes one debate voice: the speaker identity bound to a
// generator plus the stance it argues from. In self-play a single
// participant carries both personas via turn parity.
type Participant struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Model  string `json:"model"`
	Stance string `json:"stance,omitempty"`
}

// DefaultName is the speaker used when no participants are configured.
const DefaultName = "DeepSeek"

// Seed provides the default self-play roster.
func Seed() []Participant {
	return []Participant{
		{
			Name:   DefaultName,
			Role:   "cautious/skeptical → self-synthesis",
			Model:  "deepseek/deepseek-r1",
			Stance: "Alternates between a cautious skeptic and an optimistic synthesiser of its own prior arguments.",
		},
	}
}
