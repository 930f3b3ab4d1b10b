package chunker

import (
	"regexp"
	"strings"
)

// DefaultAbbreviations lists tokens whose internal periods must not be
// treated as sentence boundaries. Titles, dosage units, time-of-day
// markers, and common Latin abbreviations. A replaceable default.
var DefaultAbbreviations = []string{
	"Dr.", "Mr.", "Mrs.", "Ms.",
	"mg.", "mL.", "oz.", "lb.", "kg.",
	"a.m.", "p.m.",
	"e.g.", "i.e.", "vs.",
}

// Control characters never occur in extracted document text, so they are
// safe as temporary markers: dotMask hides periods inside protected
// abbreviations, boundaryMark tags real sentence boundaries.
const (
	dotMask      = "\x01"
	boundaryMark = "\x00"
)

var (
	sentenceEnd = regexp.MustCompile(`([.!?])\s+`)
	clauseSplit = regexp.MustCompile(`[,;]|\s+(?:and|or|but)\s+`)
)

// splitSentences splits text on sentence-terminal punctuation followed by
// whitespace, protecting known abbreviations first. This is a best-effort
// heuristic, not a grammar.
func splitSentences(text string, abbreviations []string) []string {
	protected := text
	for _, abbr := range abbreviations {
		masked := strings.ReplaceAll(abbr, ".", dotMask)
		protected = strings.ReplaceAll(protected, abbr, masked)
	}

	// Keep the terminal punctuation with its sentence.
	marked := sentenceEnd.ReplaceAllString(protected, "$1"+boundaryMark)
	parts := strings.Split(marked, boundaryMark)

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ReplaceAll(p, dotMask, "."))
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// splitClauses breaks a sentence at lower-priority boundaries: commas,
// semicolons, and coordinating conjunctions.
func splitClauses(sentence string) []string {
	parts := clauseSplit.Split(sentence, -1)
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}
