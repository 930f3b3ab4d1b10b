// Package segment splits raw document text into labeled sections using
// header-pattern recognition, so retrieval can be scoped to a section and
// chunk boundaries can respect document structure.
package segment

import (
	"regexp"
	"strings"
)

// IntroductionLabel names the implicit section that precedes any
// recognized header.
const IntroductionLabel = "introduction"

// Section is a contiguous labeled region of a document.
type Section struct {
	Label   string
	Content string
}

// Patterns holds the header-detection rules. The zero value matches
// nothing; use DefaultPatterns for the standard medical vocabulary.
type Patterns struct {
	// Heading matches markdown-style heading prefixes.
	Heading *regexp.Regexp
	// Label matches a whole trimmed line equal to a structural label,
	// optionally followed by a colon.
	Label *regexp.Regexp
}

// DefaultPatterns returns the built-in header rules: markdown headings plus
// a fixed vocabulary of structural labels common in discharge paperwork.
// The vocabulary is a replaceable default, not a contract.
func DefaultPatterns() Patterns {
	return Patterns{
		Heading: regexp.MustCompile(`^#{1,3}\s+`),
		Label: regexp.MustCompile(`(?i)^(?:DISCHARGE INSTRUCTIONS?|MEDICATIONS?|` +
			`FOLLOW[- ]?UP|DIAGNOSIS|DIAGNOSES|PROCEDURES?|DIET|ACTIVITY|` +
			`WARNING SIGNS?|ALLERGIES|VITAL SIGNS?|INSTRUCTIONS?|CARE PLAN|` +
			`TREATMENT|PRECAUTIONS?)\s*:?\s*$`),
	}
}

// Segmenter splits text into ordered sections.
type Segmenter struct {
	patterns Patterns
}

// New returns a Segmenter using the given pattern table.
func New(patterns Patterns) *Segmenter {
	return &Segmenter{patterns: patterns}
}

// NewDefault returns a Segmenter using DefaultPatterns.
func NewDefault() *Segmenter {
	return New(DefaultPatterns())
}

// Split scans text line by line and returns its sections in source order.
// Content before the first header lands in an "introduction" section.
// A header seen while the current section is still empty does not close
// anything; it just renames the open section, so adjacent headers cannot
// produce spurious empty sections. Sections whose trimmed content is empty
// are dropped. Split never fails and is deterministic for a given input.
func (s *Segmenter) Split(text string) []Section {
	lines := strings.Split(text, "\n")

	var sections []Section
	current := IntroductionLabel
	var buf []string

	content := func() string {
		return strings.TrimSpace(strings.Join(buf, "\n"))
	}

	for _, line := range lines {
		if s.isHeader(line) {
			if c := content(); c != "" {
				sections = append(sections, Section{Label: current, Content: c})
			}
			current = normalizeLabel(line)
			buf = nil
		} else {
			buf = append(buf, line)
		}
	}

	if c := content(); c != "" {
		sections = append(sections, Section{Label: current, Content: c})
	}

	return sections
}

func (s *Segmenter) isHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if s.patterns.Heading != nil && s.patterns.Heading.MatchString(trimmed) {
		return true
	}
	return s.patterns.Label != nil && s.patterns.Label.MatchString(trimmed)
}

var (
	headingMarkers = regexp.MustCompile(`^#+\s*`)
	trailingPunct  = regexp.MustCompile(`[:\-_]+$`)
)

// normalizeLabel turns a header line into a section label: heading markers
// and trailing colon/dash/underscore stripped, lowercased, trimmed.
func normalizeLabel(header string) string {
	name := headingMarkers.ReplaceAllString(strings.TrimSpace(header), "")
	name = trailingPunct.ReplaceAllString(name, "")
	return strings.ToLower(strings.TrimSpace(name))
}
