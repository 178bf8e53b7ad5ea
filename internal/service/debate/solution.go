package debate

import (
	"fmt"
	"strings"
	"time"

	"github.com/mirrormax/backend/internal/analysis/markup"
	modeldebate "github.com/mirrormax/backend/internal/model/debate"
)

const (
	finalSolutionTag    = "[Final Solution:]"
	synthesisAttemptTag = "[Synthesis Attempt:]"

	// NoSolutionSentinel is reported when no turn yields usable text.
	NoSolutionSentinel = "No clear final solution reached (debate incomplete)."

	turnPreviewLen = 250
)

// looseSolutionKeywords back up the structural tags: any turn mentioning one
// of these counts as a candidate conclusion when no tag exists.
var looseSolutionKeywords = []string{"best", "recommended", "solution"}

// ExtractSolution picks the final-solution text from a (possibly incomplete)
// transcript. Turns are scanned newest-first, in three passes: structural
// tags, then loose keywords, then the most recent turn verbatim. A tag in a
// later turn always beats one in an earlier turn.
func ExtractSolution(turns []modeldebate.Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		for _, tag := range []string{finalSolutionTag, synthesisAttemptTag} {
			if section := markup.FirstAfter(turns[i].Content, tag, markup.UntilNextBracket); section != "" {
				return section
			}
		}
	}

	for i := len(turns) - 1; i >= 0; i-- {
		lower := strings.ToLower(turns[i].Content)
		for _, keyword := range looseSolutionKeywords {
			if strings.Contains(lower, keyword) {
				return strings.TrimSpace(turns[i].Content)
			}
		}
	}

	if len(turns) > 0 {
		if content := strings.TrimSpace(turns[len(turns)-1].Content); content != "" {
			return content
		}
	}
	return NoSolutionSentinel
}

// ComposeSolutionDocument renders the human-readable solution file: header,
// per-turn abridged summary, the extracted solution, and an early-stop note
// when fewer than maxTurns completed.
func ComposeSolutionDocument(topic string, turns []modeldebate.Turn, solution string, maxTurns int, logPath string) string {
	var b strings.Builder

	b.WriteString("Mirror Max Debate - Final Solution\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Topic: %s\n\n", topic))

	b.WriteString("Key Arguments Summary:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, turn := range turns {
		preview := turn.Content
		// Character cut, not byte cut: content may be multi-byte UTF-8.
		if runes := []rune(preview); len(runes) > turnPreviewLen {
			preview = string(runes[:turnPreviewLen]) + "..."
		}
		b.WriteString(fmt.Sprintf("Turn %d (%s): %s\n\n", turn.Number, turn.Role, preview))
	}

	b.WriteString("\nFinal / Best Solution:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	b.WriteString(solution + "\n\n")

	if len(turns) < maxTurns {
		b.WriteString("Note: Debate stopped early (e.g. rate limit). This is the strongest/best available conclusion so far.\n")
	}

	b.WriteString(fmt.Sprintf("\nGenerated: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("Full detailed log: %s\n", logPath))

	return b.String()
}
