package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as human-readable text.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("--- Result %d (score: %.4f) ---\n", i+1, r.Score))

		if r.Entry.Metadata.SourceFile != "" {
			sb.WriteString(fmt.Sprintf("Source: %s (chunk %d)\n",
				r.Entry.Metadata.SourceFile, r.Entry.Metadata.ChunkIndex))
		}
		if r.Entry.Metadata.Section != "" {
			sb.WriteString(fmt.Sprintf("Section: %s\n", r.Entry.Metadata.Section))
		}

		sb.WriteString("\n")
		sb.WriteString(r.Entry.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
