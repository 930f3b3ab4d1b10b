// Package chunker packs document sentences into token-bounded chunks with
// configurable overlap, the unit indexed and retrieved by the rest of the
// system. Sentence boundaries are preserved wherever possible; sentences
// that alone exceed the budget are split at clause boundaries instead of
// being dropped.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clarityhealth/medrag/internal/segment"
	"github.com/clarityhealth/medrag/internal/tokenizer"
)

const (
	// DefaultChunkSize is the default token budget per chunk.
	DefaultChunkSize = 300
	// DefaultChunkOverlap is the default token budget carried between
	// consecutive chunks.
	DefaultChunkOverlap = 50
)

// Chunk is a token-bounded, sentence-aligned span of one document section.
type Chunk struct {
	// Content is the chunk text, contiguous sentences from one section.
	Content string
	// ID is derived from (source file, section, index) and contains only
	// identifier-safe characters. Stable across re-runs on the same input.
	ID string
	// SourceFile identifies the originating document. Callers may
	// overwrite it after chunking, e.g. to restore an original filename
	// after a temp-file round trip.
	SourceFile string
	// Index is the zero-based position in the document's chunk sequence,
	// monotonic across sections.
	Index int
	// TokenCount is the token count of Content at creation time.
	TokenCount int
	// Section is the label of the section the chunk came from.
	Section string
}

// Metadata returns the chunk's metadata as a flat map for the vector index.
func (c Chunk) Metadata() map[string]string {
	section := c.Section
	if section == "" {
		section = "unknown"
	}
	return map[string]string{
		"source_file": c.SourceFile,
		"section":     section,
		"chunk_index": fmt.Sprintf("%d", c.Index),
		"token_count": fmt.Sprintf("%d", c.TokenCount),
	}
}

// Chunker packs sentences into chunks of at most size tokens, carrying up
// to overlap tokens of trailing context into the next chunk.
type Chunker struct {
	size          int
	overlap       int
	counter       tokenizer.Counter
	segmenter     *segment.Segmenter
	abbreviations []string
}

// New returns a Chunker with the default section patterns and
// abbreviation table. Non-positive size/overlap fall back to defaults.
func New(size, overlap int, counter tokenizer.Counter) *Chunker {
	return NewWithTables(size, overlap, counter, segment.DefaultPatterns(), DefaultAbbreviations)
}

// NewWithTables returns a Chunker with explicit pattern and abbreviation
// tables, for callers that tune the heuristics.
func NewWithTables(size, overlap int, counter tokenizer.Counter, patterns segment.Patterns, abbreviations []string) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{
		size:          size,
		overlap:       overlap,
		counter:       counter,
		segmenter:     segment.New(patterns),
		abbreviations: abbreviations,
	}
}

// ChunkText segments text and packs every section into chunks. The chunk
// index runs across the whole document, not per section. Malformed or
// empty input yields no chunks, never an error.
func (c *Chunker) ChunkText(text, sourceFile string) []Chunk {
	var chunks []Chunk
	for _, sec := range c.segmenter.Split(text) {
		chunks = append(chunks, c.ChunkSection(sec, sourceFile, len(chunks))...)
	}
	return chunks
}

// ChunkSection packs one section's sentences into chunks, numbering them
// from startIndex. A whitespace-only section produces no chunks.
func (c *Chunker) ChunkSection(sec segment.Section, sourceFile string, startIndex int) []Chunk {
	if strings.TrimSpace(sec.Content) == "" {
		return nil
	}

	sentences := splitSentences(sec.Content, c.abbreviations)

	var chunks []Chunk
	var acc []string
	accTokens := 0

	flush := func() {
		if len(acc) > 0 {
			chunks = append(chunks, c.newChunk(strings.Join(acc, " "), sec.Label, sourceFile, startIndex+len(chunks)))
		}
	}

	for _, sentence := range sentences {
		sentenceTokens := c.counter.Count(sentence)

		// A single sentence over budget: flush, then emit clause-packed
		// sub-chunks. These contribute no overlap to what follows.
		if sentenceTokens > c.size {
			flush()
			acc, accTokens = nil, 0
			for _, sub := range c.packClauses(sentence) {
				chunks = append(chunks, c.newChunk(sub, sec.Label, sourceFile, startIndex+len(chunks)))
			}
			continue
		}

		if accTokens+sentenceTokens > c.size {
			flush()
			acc = c.overlapTail(acc, sentenceTokens)
			acc = append(acc, sentence)
			accTokens = c.counter.Count(strings.Join(acc, " "))
		} else {
			acc = append(acc, sentence)
			accTokens += sentenceTokens
		}
	}

	flush()
	return chunks
}

// packClauses splits an oversized sentence at clause boundaries and
// greedily packs the fragments up to the chunk size, joined with ", ".
// A single clause over budget is still emitted whole: completeness
// outranks the size bound here.
func (c *Chunker) packClauses(sentence string) []string {
	var packed []string
	var acc []string
	accTokens := 0

	for _, clause := range splitClauses(sentence) {
		clauseTokens := c.counter.Count(clause)
		if accTokens+clauseTokens > c.size {
			if len(acc) > 0 {
				packed = append(packed, strings.Join(acc, ", "))
			}
			acc = []string{clause}
			accTokens = clauseTokens
		} else {
			acc = append(acc, clause)
			accTokens += clauseTokens
		}
	}
	if len(acc) > 0 {
		packed = append(packed, strings.Join(acc, ", "))
	}
	return packed
}

// overlapTail returns the maximal trailing run of sentences whose combined
// token count fits the overlap budget. The budget is additionally capped so
// that seed plus the next sentence stays within the chunk size, keeping the
// size bound intact for every non-fallback chunk.
func (c *Chunker) overlapTail(sentences []string, nextTokens int) []string {
	budget := c.overlap
	if room := c.size - nextTokens; room < budget {
		budget = room
	}

	var tail []string
	tokens := 0
	for i := len(sentences) - 1; i >= 0; i-- {
		st := c.counter.Count(sentences[i])
		if tokens+st > budget {
			break
		}
		tail = append([]string{sentences[i]}, tail...)
		tokens += st
	}
	return tail
}

var unsafeIDChars = regexp.MustCompile(`[^0-9A-Za-z_\-]`)

func (c *Chunker) newChunk(content, section, sourceFile string, index int) Chunk {
	id := unsafeIDChars.ReplaceAllString(fmt.Sprintf("%s_%s_%d", sourceFile, section, index), "_")
	return Chunk{
		Content:    content,
		ID:         id,
		SourceFile: sourceFile,
		Index:      index,
		TokenCount: c.counter.Count(content),
		Section:    section,
	}
}
