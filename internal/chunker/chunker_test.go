package chunker

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/clarityhealth/medrag/internal/segment"
	"github.com/clarityhealth/medrag/internal/tokenizer"
)

func wordChunker(size, overlap int) *Chunker {
	return New(size, overlap, tokenizer.WordCounter{})
}

func TestChunkSectionPacksWithinBudget(t *testing.T) {
	c := wordChunker(5, 2)
	sec := segment.Section{Label: "medications", Content: "A B C. D E F. G H I."}

	chunks := c.ChunkSection(sec, "doc.txt", 0)

	// Each sentence is 3 word tokens; adding a second sentence would
	// exceed 5, and 3-token sentences do not fit the 2-token overlap.
	want := []string{"A B C.", "D E F.", "G H I."}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %+v", len(chunks), len(want), chunks)
	}
	for i, ch := range chunks {
		if ch.Content != want[i] {
			t.Errorf("chunk %d content = %q, want %q", i, ch.Content, want[i])
		}
		if ch.TokenCount > 5 {
			t.Errorf("chunk %d token count %d exceeds size 5", i, ch.TokenCount)
		}
		if ch.Index != i {
			t.Errorf("chunk %d index = %d", i, ch.Index)
		}
		if ch.Section != "medications" {
			t.Errorf("chunk %d section = %q", i, ch.Section)
		}
	}
}

func TestChunkSectionOverlapSeedsNextChunk(t *testing.T) {
	c := wordChunker(7, 3)
	sec := segment.Section{Label: "diet", Content: "A B C. D E F. G H I."}

	chunks := c.ChunkSection(sec, "doc.txt", 0)

	want := []string{"A B C. D E F.", "D E F. G H I."}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d: %+v", len(chunks), len(want), chunks)
	}
	for i, ch := range chunks {
		if ch.Content != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, ch.Content, want[i])
		}
	}
	// The second chunk is seeded by the trailing sentence of the first.
	if !strings.HasPrefix(chunks[1].Content, "D E F.") {
		t.Errorf("second chunk %q not seeded with overlap", chunks[1].Content)
	}
}

func TestChunkSizeBoundHolds(t *testing.T) {
	// Many size/overlap combinations with overlap < size: every chunk
	// produced by the sentence path stays within the budget.
	content := "A B C. D E. F G H I. J. K L M. N O P. Q R. S T U V."
	for _, size := range []int{4, 5, 6, 8, 10} {
		for _, overlap := range []int{0, 1, 2, 3} {
			if overlap >= size {
				continue
			}
			c := wordChunker(size, overlap)
			chunks := c.ChunkSection(segment.Section{Label: "x", Content: content}, "doc.txt", 0)
			for _, ch := range chunks {
				if ch.TokenCount > size {
					t.Errorf("size=%d overlap=%d: chunk %q has %d tokens",
						size, overlap, ch.Content, ch.TokenCount)
				}
			}
		}
	}
}

func TestOversizedSentenceSplitsIntoClauses(t *testing.T) {
	// A 50-token sentence with chunk_size=10 is split at clause
	// boundaries, with nothing dropped.
	var clauses []string
	for i := 0; i < 25; i++ {
		clauses = append(clauses, fmt.Sprintf("item%d detail%d", i, i))
	}
	sentence := strings.Join(clauses, ", ") + "."

	c := wordChunker(10, 2)
	chunks := c.ChunkSection(segment.Section{Label: "meds", Content: sentence}, "doc.txt", 0)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple sub-chunks, got %d", len(chunks))
	}

	var words int
	for _, ch := range chunks {
		words += len(strings.Fields(strings.ReplaceAll(ch.Content, ",", " ")))
	}
	wantWords := 50
	if words != wantWords {
		t.Errorf("sub-chunks hold %d words, want %d (clauses dropped or duplicated)", words, wantWords)
	}

	// Re-chunking every sub-chunk must not panic or drop content.
	for _, ch := range chunks {
		re := c.ChunkSection(segment.Section{Label: "meds", Content: ch.Content}, "doc.txt", 0)
		if len(re) == 0 {
			t.Errorf("re-chunking %q produced no chunks", ch.Content)
		}
	}
}

func TestOversizedClauseStillEmitted(t *testing.T) {
	// A single clause over budget is emitted whole rather than dropped.
	sentence := "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11 w12."
	c := wordChunker(5, 0)
	chunks := c.ChunkSection(segment.Section{Label: "x", Content: sentence}, "doc.txt", 0)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].TokenCount <= 5 {
		t.Errorf("expected oversized fallback chunk, got %d tokens", chunks[0].TokenCount)
	}
}

func TestSectionSentencesReconstructable(t *testing.T) {
	content := "A B. C D E. F G. H I J K. L M. N O P. Q R S."
	c := wordChunker(6, 3)
	chunks := c.ChunkSection(segment.Section{Label: "x", Content: content}, "doc.txt", 0)

	original := splitSentences(content, DefaultAbbreviations)

	// Stitch chunk sentence sequences back together, removing the
	// overlap window at each boundary.
	var rebuilt []string
	for _, ch := range chunks {
		sentences := splitSentences(ch.Content, DefaultAbbreviations)
		skip := 0
		for k := min(len(rebuilt), len(sentences)); k > 0; k-- {
			if reflect.DeepEqual(rebuilt[len(rebuilt)-k:], sentences[:k]) {
				skip = k
				break
			}
		}
		rebuilt = append(rebuilt, sentences[skip:]...)
	}

	if !reflect.DeepEqual(rebuilt, original) {
		t.Errorf("rebuilt sentence sequence %v, want %v", rebuilt, original)
	}
}

func TestChunkTextIndexRunsAcrossSections(t *testing.T) {
	c := wordChunker(50, 5)
	text := "MEDICATIONS:\nTake aspirin daily.\nFOLLOW-UP:\nSee doctor in 1 week."

	chunks := c.ChunkText(text, "discharge.txt")

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(chunks), chunks)
	}
	if chunks[0].Section != "medications" || chunks[1].Section != "follow-up" {
		t.Errorf("sections = %q, %q", chunks[0].Section, chunks[1].Section)
	}
	if chunks[0].Index != 0 || chunks[1].Index != 1 {
		t.Errorf("indices = %d, %d; want 0, 1", chunks[0].Index, chunks[1].Index)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	c := wordChunker(10, 2)
	for _, text := range []string{"", "   ", "\n\n"} {
		if chunks := c.ChunkText(text, "doc.txt"); len(chunks) != 0 {
			t.Errorf("ChunkText(%q) = %+v, want none", text, chunks)
		}
	}
}

func TestChunkIDsIdentifierSafeAndStable(t *testing.T) {
	c := wordChunker(50, 5)
	text := "MEDICATIONS:\nTake aspirin daily."

	first := c.ChunkText(text, "My Report (final).txt")
	second := c.ChunkText(text, "My Report (final).txt")

	safe := regexp.MustCompile(`^[0-9A-Za-z_\-]+$`)
	for i, ch := range first {
		if !safe.MatchString(ch.ID) {
			t.Errorf("chunk ID %q contains unsafe characters", ch.ID)
		}
		if ch.ID != second[i].ID {
			t.Errorf("chunk ID not stable: %q vs %q", ch.ID, second[i].ID)
		}
	}
}

func TestChunkMetadata(t *testing.T) {
	ch := Chunk{
		Content:    "Take aspirin daily.",
		ID:         "doc_txt_medications_0",
		SourceFile: "doc.txt",
		Index:      0,
		TokenCount: 3,
		Section:    "medications",
	}
	md := ch.Metadata()
	want := map[string]string{
		"source_file": "doc.txt",
		"section":     "medications",
		"chunk_index": "0",
		"token_count": "3",
	}
	if !reflect.DeepEqual(md, want) {
		t.Errorf("Metadata() = %v, want %v", md, want)
	}

	ch.Section = ""
	if got := ch.Metadata()["section"]; got != "unknown" {
		t.Errorf("empty section metadata = %q, want unknown", got)
	}
}
