// Package protocol renders the per-turn instruction text. Building a prompt
// is pure templating: identical inputs always produce byte-identical output.
package protocol

import (
	"fmt"
	"strings"

	"github.com/mirrormax/backend/internal/transcript"
)

// DefaultTokenGuideline is the closing length hint appended to every prompt.
const DefaultTokenGuideline = "Aim for 400–700 tokens. Maximum: 1024 tokens."

const (
	summaryWindow  = 5
	deltaWindow    = 3
	synthesisEvery = 5
)

// TurnInput carries everything the template needs for one turn.
type TurnInput struct {
	History        []transcript.Entry
	CurrentSpeaker string
	Opponent       string
	TurnNumber     int
	Topic          string
	TokenGuideline string
}

// TurnPrompt builds the structured debate prompt for a turn. The supplied
// history is replayed into a transient transcript manager, so the builder
// holds no state between calls.
func TurnPrompt(in TurnInput) string {
	manager := transcript.NewManager()
	for _, entry := range in.History {
		manager.AddTurn(entry.Speaker, entry.Content, entry.Turn)
	}

	recentContext := manager.RollingSummary(summaryWindow)
	delta := manager.DisagreementDelta(deltaWindow)

	guideline := in.TokenGuideline
	if guideline == "" {
		guideline = DefaultTokenGuideline
	}

	synthesisClause := ""
	if in.TurnNumber%synthesisEvery == 0 {
		synthesisClause = "SYNTHESIS REQUIREMENT (every 5th turn): Include [Synthesis Attempt:] - Find common ground or clearly state irreconcilable difference."
	}

	prompt := fmt.Sprintf(`MIRROR MAX DEBATE - TURN %d
Topic: %s

Your role: %s
Opponent role: %s

RECENT CONTEXT (last 5 turns):
%s

DISAGREEMENT DELTA:
%s

DEBATE PROTOCOL v0.1 REQUIREMENTS:
1. [Reference:] Quote or paraphrase a specific point from opponent
2. [Claim:] State your position clearly
3. [Evidence/Reasoning:] Provide support (logic, data, patterns, examples)
4. [Crux-Question:] Identify core unresolved issue or ask a crux-oriented question
   (e.g. "What evidence would change your mind on X?")

OPTIONAL (use sparingly):
- [Steelman:] Charitable restatement of opponent's strongest point
- [Meta-Observation:] Brief comment on opponent's reasoning style/pattern

%s

Be rigorous, charitable, and concise. Prioritize clarity over exhaustiveness.
%s

Your response (%s):`,
		in.TurnNumber,
		in.Topic,
		in.CurrentSpeaker,
		in.Opponent,
		recentContext,
		delta,
		synthesisClause,
		guideline,
		in.CurrentSpeaker,
	)

	return strings.TrimSpace(prompt)
}
