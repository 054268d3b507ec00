package document

// SourceKind distinguishes how the raw PDF is obtained.
type SourceKind string

const (
	SourceKindBytes SourceKind = "bytes"
	SourceKindURL   SourceKind = "url"
)

// Source is one PDF to ingest: either raw bytes or a URL pointing at one.
type Source struct {
	Id   string     `json:"id"`
	Kind SourceKind `json:"kind"`
	Data []byte     `json:"data,omitempty"`
	URL  string     `json:"url,omitempty"`
}

// Chunk is a bounded span of extracted document text. Chunks are immutable
// once produced; SequenceIndex preserves original order within SourceId.
type Chunk struct {
	Id            string `json:"id"`
	SourceId      string `json:"source_id"`
	Text          string `json:"text"`
	SequenceIndex int    `json:"sequence_index"`
}

// ScoredChunk is a chunk returned from a similarity search.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}
