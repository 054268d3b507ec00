package composer

import (
	"fmt"
	"strings"

	"github.com/me-nabi/pdf-assistant/document"
)

const (
	preamble = "Based on the following context from the documents, please answer the question."

	noContextNotice = "No supporting context was found in the loaded documents. " +
		"Say so if the question cannot be answered without it."
)

// Composer formats retrieved chunks plus the question into a single bounded
// prompt. Chunks are labeled in retrieval-rank order; when the bound would be
// exceeded, the lowest-ranked chunks are dropped first.
type Composer struct {
	options Options
}

func (c *Composer) Compose(question string, chunks []document.ScoredChunk) string {
	blocks := make([]string, 0, len(chunks))
	for i, sc := range chunks {
		blocks = append(blocks, fmt.Sprintf("Document %d:\n%s", i+1, sc.Chunk.Text))
	}

	for len(blocks) > 0 && c.length(question, blocks) > c.options.MaxContextLength {
		blocks = blocks[:len(blocks)-1]
	}

	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("\n\n")

	if len(blocks) == 0 {
		sb.WriteString(noContextNotice)
	} else {
		sb.WriteString("Context:\n")
		sb.WriteString(strings.Join(blocks, "\n\n"))
	}

	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")

	return sb.String()
}

func (c *Composer) length(question string, blocks []string) int {
	total := len(preamble) + len("\n\nContext:\n") + len("\n\nQuestion: ") + len(question) + len("\n\nAnswer:")
	for i, b := range blocks {
		if i > 0 {
			total += len("\n\n")
		}
		total += len(b)
	}
	return total
}

func NewComposer(opts ...Option) *Composer {
	options := NewOptions(opts...)

	return &Composer{
		options: options,
	}
}
