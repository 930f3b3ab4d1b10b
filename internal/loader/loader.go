// Package loader reads extracted plain-text medical documents and
// prepares them for chunking: boilerplate stripping, shorthand expansion,
// document-type classification, and informational section detection.
// Byte-level PDF extraction is an upstream concern; this package only
// consumes its plain-text output.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DocType tags the kind of medical document a file appears to be.
type DocType string

const (
	DocTypeDischargeSummary DocType = "discharge_summary"
	DocTypeMedicationGuide  DocType = "medication_guide"
	DocTypeDoctorNote       DocType = "doctor_note"
	DocTypeLabResults       DocType = "lab_results"
	DocTypeGeneric          DocType = "medical_document"
)

// DocumentMetadata describes a loaded document. Produced once by the
// loader and consumed read-only downstream.
type DocumentMetadata struct {
	SourceFile string
	PageCount  int
	DocType    DocType
	// SectionsFound lists section labels spotted in the raw text.
	// Informational only: the segmenter re-derives real boundaries.
	SectionsFound []string
}

// Document is a loaded document's cleaned content plus its metadata.
type Document struct {
	Content  string
	Metadata DocumentMetadata
}

// shorthand maps clinical dosage abbreviations to patient-readable
// phrases. A replaceable default table.
var shorthand = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bprn\b`), "PRN (as needed)"},
	{regexp.MustCompile(`(?i)\bqd\b`), "once daily"},
	{regexp.MustCompile(`(?i)\bbid\b`), "twice daily"},
	{regexp.MustCompile(`(?i)\btid\b`), "three times daily"},
	{regexp.MustCompile(`(?i)\bqid\b`), "four times daily"},
	{regexp.MustCompile(`(?i)\bpo\b`), "by mouth"},
	{regexp.MustCompile(`(?i)\bstat\b`), "immediately"},
}

// sectionPatterns spot well-known section headings anywhere in the text.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(discharge\s+instructions?)`),
	regexp.MustCompile(`(?i)(medications?)`),
	regexp.MustCompile(`(?i)(follow[- ]?up)`),
	regexp.MustCompile(`(?i)(diagnosis|diagnoses)`),
	regexp.MustCompile(`(?i)(procedures?)`),
	regexp.MustCompile(`(?i)(diet(?:ary)?)`),
	regexp.MustCompile(`(?i)(activity)`),
	regexp.MustCompile(`(?i)(warning\s+signs?)`),
	regexp.MustCompile(`(?i)(allergies)`),
	regexp.MustCompile(`(?i)(vital\s+signs?)`),
}

var (
	pageMarker   = regexp.MustCompile(`(?i)Page\s+\d+\s+of\s+\d+`)
	confidential = regexp.MustCompile(`(?im)^.*CONFIDENTIAL.*$`)
	hyphenBreak  = regexp.MustCompile(`(\w+)-\n(\w+)`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	spaceRuns    = regexp.MustCompile(`[ \t]+`)
	trailingWS   = regexp.MustCompile(` +\n`)
	pageBreak    = regexp.MustCompile(`\f`)
)

// Load reads one text or markdown file and returns the cleaned document.
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("loading %s: %w", path, err)
	}

	text := string(raw)
	pageCount := len(pageBreak.Split(text, -1))
	content := Preprocess(text)

	return Document{
		Content: content,
		Metadata: DocumentMetadata{
			SourceFile:    filepath.Base(path),
			PageCount:     pageCount,
			DocType:       Classify(content),
			SectionsFound: IdentifySections(content),
		},
	}, nil
}

// Preprocess strips boilerplate and expands clinical shorthand so the
// chunker sees clean, readable text.
func Preprocess(text string) string {
	text = pageMarker.ReplaceAllString(text, "")
	text = confidential.ReplaceAllString(text, "")
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = pageBreak.ReplaceAllString(text, "\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = trailingWS.ReplaceAllString(text, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	for _, s := range shorthand {
		text = s.pattern.ReplaceAllString(text, s.replacement)
	}

	return strings.TrimSpace(text)
}

// Classify guesses the document type from its content.
func Classify(text string) DocType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "discharge") &&
		(strings.Contains(lower, "instructions") || strings.Contains(lower, "summary")):
		return DocTypeDischargeSummary
	case strings.Contains(lower, "medication") &&
		(strings.Contains(lower, "guide") || strings.Contains(lower, "information")):
		return DocTypeMedicationGuide
	case strings.Contains(lower, "progress note") || strings.Contains(lower, "clinical note"):
		return DocTypeDoctorNote
	case strings.Contains(lower, "lab") && strings.Contains(lower, "result"):
		return DocTypeLabResults
	default:
		return DocTypeGeneric
	}
}

// IdentifySections returns the sorted, deduplicated section labels
// spotted in the text.
func IdentifySections(text string) []string {
	seen := make(map[string]struct{})
	for _, p := range sectionPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			seen[strings.ToLower(strings.TrimSpace(m[1]))] = struct{}{}
		}
	}

	sections := make([]string, 0, len(seen))
	for s := range seen {
		sections = append(sections, s)
	}
	sort.Strings(sections)
	return sections
}
