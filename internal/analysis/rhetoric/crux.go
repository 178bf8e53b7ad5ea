package rhetoric

import "github.com/mirrormax/backend/internal/analysis/markup"

// ExtractCruxQuestions returns every crux-question section in content, in
// order of appearance. A section runs from the tag to the next tag, blank
// line, or end of text; empty captures are dropped.
func ExtractCruxQuestions(content string) []string {
	return markup.CaptureAfter(content, CruxTag, markup.UntilNextTagOrBlank)
}

func clamp(energy float64) float64 {
	if energy < 0 {
		return 0
	}
	if energy > 1 {
		return 1
	}
	return energy
}
