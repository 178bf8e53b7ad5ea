// Package markup implements the lightweight bracket-tag grammar used by the
// debate protocol: sections open with a tag like `[Crux-Question:]` and run
// until a boundary decided by the caller's rule.
package markup

import "strings"

// Boundary selects where a captured section ends.
type Boundary int

const (
	// UntilNextTagOrBlank ends a capture at the next bracket tag, a blank
	// line, or the end of the text. This is the rule used for structured
	// per-turn sections.
	UntilNextTagOrBlank Boundary = iota

	// UntilNextBracket ends a capture at the next `[` character or the end
	// of the text, regardless of whether it opens a well-formed tag. This
	// looser rule is used for delta and solution extraction.
	UntilNextBracket
)

// CaptureAfter returns every section of text that follows an occurrence of
// tag, in order of appearance. Matching is case-insensitive and captures are
// trimmed; empty captures are dropped. Overlapping tags are not handled
// specially: scanning resumes after each capture, first match wins.
func CaptureAfter(text, tag string, boundary Boundary) []string {
	if text == "" || tag == "" {
		return nil
	}

	var sections []string
	pos := 0
	for {
		idx := indexFold(text, tag, pos)
		if idx < 0 {
			break
		}
		start := idx + len(tag)
		end := start + boundaryIndex(text[start:], boundary)

		if section := strings.TrimSpace(text[start:end]); section != "" {
			sections = append(sections, section)
		}
		pos = end
		if pos >= len(text) {
			break
		}
	}
	return sections
}

// indexFold locates a case-insensitive occurrence of tag in text at or after
// from, returning a byte offset valid for text itself. Lowercasing the whole
// text first is not an option: ToLower changes byte length for some runes and
// the shifted offsets would misindex the original.
func indexFold(text, tag string, from int) int {
	for i := from; i+len(tag) <= len(text); i++ {
		if strings.EqualFold(text[i:i+len(tag)], tag) {
			return i
		}
	}
	return -1
}

// FirstAfter returns the first capture for tag, or "" when the tag does not
// occur or captures nothing but whitespace.
func FirstAfter(text, tag string, boundary Boundary) string {
	sections := CaptureAfter(text, tag, boundary)
	if len(sections) == 0 {
		return ""
	}
	return sections[0]
}

// Contains reports whether text contains tag, case-insensitively.
func Contains(text, tag string) bool {
	return tag != "" && indexFold(text, tag, 0) >= 0
}

func boundaryIndex(rest string, boundary Boundary) int {
	switch boundary {
	case UntilNextBracket:
		if idx := strings.Index(rest, "["); idx >= 0 {
			return idx
		}
		return len(rest)
	default:
		end := len(rest)
		if idx := strings.Index(rest, "["); idx >= 0 {
			end = idx
		}
		if idx := blankLineIndex(rest); idx >= 0 && idx < end {
			end = idx
		}
		return end
	}
}

// blankLineIndex locates the first empty (or whitespace-only) line break in
// rest, returning -1 when none exists.
func blankLineIndex(rest string) int {
	offset := 0
	for {
		nl := strings.Index(rest[offset:], "\n")
		if nl < 0 {
			return -1
		}
		lineStart := offset + nl + 1
		lineEnd := strings.Index(rest[lineStart:], "\n")
		if lineEnd < 0 {
			if strings.TrimSpace(rest[lineStart:]) == "" {
				return offset + nl
			}
			return -1
		}
		if strings.TrimSpace(rest[lineStart:lineStart+lineEnd]) == "" {
			return offset + nl
		}
		offset = lineStart + lineEnd
	}
}
