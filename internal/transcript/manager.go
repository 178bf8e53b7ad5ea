// Package transcript owns the append-only turn history of one debate session
// and derives the read-only context views fed back into each prompt.
package transcript

import (
	"fmt"
	"strings"

	"github.com/mirrormax/backend/internal/analysis/markup"
	"github.com/mirrormax/backend/internal/analysis/rhetoric"
)

const (
	summaryPreviewLen = 180
	cruxPreviewLen    = 120

	emptySummary  = "[No prior exchanges - opening statements]"
	noDelta       = "No disagreements yet - initial statements only"
	noCruxesFound = "No explicit crux questions identified in recent turns"
)

// Entry is one recorded exchange as seen by the context views.
type Entry struct {
	Turn    int
	Speaker string
	Content string
}

// Manager accumulates turn history. It is not safe for concurrent use; the
// orchestrator appends strictly between generation calls.
type Manager struct {
	history []Entry
}

// NewManager returns an empty history.
func NewManager() *Manager {
	return &Manager{}
}

// AddTurn appends a turn. Prior entries are never mutated or removed.
func (m *Manager) AddTurn(speaker, content string, turnNumber int) {
	m.history = append(m.history, Entry{Turn: turnNumber, Speaker: speaker, Content: content})
}

// Len reports how many turns have been recorded.
func (m *Manager) Len() int {
	return len(m.history)
}

// History returns a copy of the recorded entries in turn order.
func (m *Manager) History() []Entry {
	return append([]Entry(nil), m.history...)
}

// RollingSummary renders a one-line preview of each of the most recent lastN
// turns, oldest first. An empty history yields a fixed sentinel.
func (m *Manager) RollingSummary(lastN int) string {
	recent := m.recent(lastN)
	if len(recent) == 0 {
		return emptySummary
	}

	lines := make([]string, 0, len(recent))
	for _, entry := range recent {
		preview := strings.TrimSpace(strings.ReplaceAll(truncate(entry.Content, summaryPreviewLen), "\n", " "))
		lines = append(lines, fmt.Sprintf("Turn %d (%s): %s...", entry.Turn, entry.Speaker, preview))
	}
	return strings.Join(lines, "\n")
}

// DisagreementDelta lists the first crux question of each of the most recent
// lastN turns as a bulleted list. Captures stop at the next `[` character, a
// deliberately looser boundary than ExtractCruxQuestions uses, so the two
// views can disagree on malformed input.
func (m *Manager) DisagreementDelta(lastN int) string {
	if len(m.history) < 2 {
		return noDelta
	}

	var cruxes []string
	for _, entry := range m.recent(lastN) {
		crux := markup.FirstAfter(entry.Content, rhetoric.CruxTag, markup.UntilNextBracket)
		if crux == "" {
			continue
		}
		if cut := truncate(crux, cruxPreviewLen); cut != crux {
			crux = cut + "..."
		}
		cruxes = append(cruxes, crux)
	}

	if len(cruxes) == 0 {
		return noCruxesFound
	}
	return "Recent cruxes / disagreements:\n• " + strings.Join(cruxes, "\n• ")
}

func (m *Manager) recent(lastN int) []Entry {
	if lastN <= 0 || len(m.history) == 0 {
		return nil
	}
	if lastN > len(m.history) {
		lastN = len(m.history)
	}
	return m.history[len(m.history)-lastN:]
}

// truncate cuts s to at most limit characters. Limits count runes, not
// bytes: previews are fed back into prompts and must stay valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
