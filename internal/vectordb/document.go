package vectordb

import "strconv"

// Entry is the persisted unit inside the vector index: an id, the chunk
// text, its embedding, and the metadata used for filtered search. Once
// added, the index owns the stored data; callers keep no reference that
// affects stored state.
type Entry struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  Metadata
}

// Metadata holds the structured fields stored alongside each entry.
type Metadata struct {
	SourceFile string
	Section    string
	ChunkIndex int
	TokenCount int
	DocType    string
}

// SearchResult pairs an entry with its similarity score. Score is cosine
// similarity (1 - cosine distance), reported without clamping.
type SearchResult struct {
	Entry Entry
	Score float32
}

// SearchFilter narrows search results by metadata equality. Set fields
// are combined as a conjunction.
type SearchFilter struct {
	Section    *string
	SourceFile *string
}

// Metadata field names as stored in the index.
const (
	FieldSourceFile = "source_file"
	FieldSection    = "section"
	FieldChunkIndex = "chunk_index"
	FieldTokenCount = "token_count"
	FieldDocType    = "doc_type"
)

// metadataToMap converts Metadata to a flat map[string]string for chromem.
func metadataToMap(m Metadata) map[string]string {
	md := map[string]string{
		FieldSourceFile: m.SourceFile,
		FieldSection:    m.Section,
		FieldChunkIndex: strconv.Itoa(m.ChunkIndex),
		FieldTokenCount: strconv.Itoa(m.TokenCount),
	}
	if m.DocType != "" {
		md[FieldDocType] = m.DocType
	}
	return md
}

// mapToMetadata converts a flat map[string]string back to Metadata.
func mapToMetadata(m map[string]string) Metadata {
	chunkIndex, _ := strconv.Atoi(m[FieldChunkIndex])
	tokenCount, _ := strconv.Atoi(m[FieldTokenCount])

	return Metadata{
		SourceFile: m[FieldSourceFile],
		Section:    m[FieldSection],
		ChunkIndex: chunkIndex,
		TokenCount: tokenCount,
		DocType:    m[FieldDocType],
	}
}

// buildWhereClause converts a SearchFilter to a chromem where clause.
func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil {
		return nil
	}

	where := make(map[string]string)
	if filter.Section != nil {
		where[FieldSection] = *filter.Section
	}
	if filter.SourceFile != nil {
		where[FieldSourceFile] = *filter.SourceFile
	}

	if len(where) == 0 {
		return nil
	}
	return where
}
