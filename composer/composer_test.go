package composer

import (
	"strings"
	"testing"

	"github.com/me-nabi/pdf-assistant/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(text string, score float32) document.ScoredChunk {
	return document.ScoredChunk{
		Chunk: document.Chunk{Id: "id-" + text, SourceId: "src", Text: text},
		Score: score,
	}
}

func TestCompose_LabelsChunksInRankOrder(t *testing.T) {
	c := NewComposer()

	prompt := c.Compose("what is this?", []document.ScoredChunk{
		scored("first chunk", 0.9),
		scored("second chunk", 0.5),
	})

	assert.Contains(t, prompt, "Document 1:\nfirst chunk")
	assert.Contains(t, prompt, "Document 2:\nsecond chunk")
	assert.Less(t, strings.Index(prompt, "Document 1:"), strings.Index(prompt, "Document 2:"))
	assert.Contains(t, prompt, "Question: what is this?")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}

func TestCompose_EmptyChunksStillWellFormed(t *testing.T) {
	c := NewComposer()

	prompt := c.Compose("anything?", nil)

	assert.Contains(t, prompt, noContextNotice)
	assert.Contains(t, prompt, "Question: anything?")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
	assert.NotContains(t, prompt, "Document 1:")
}

func TestCompose_DropsLowestRankedWhenOverLimit(t *testing.T) {
	c := NewComposer(WithMaxContextLength(300))

	big := strings.Repeat("x", 120)
	prompt := c.Compose("q?", []document.ScoredChunk{
		scored("kept "+big, 0.9),
		scored("dropped "+big, 0.1),
	})

	assert.Contains(t, prompt, "kept")
	assert.NotContains(t, prompt, "dropped")
	assert.LessOrEqual(t, len(prompt), 300)
}

func TestCompose_KeepsEverythingUnderLimit(t *testing.T) {
	c := NewComposer()

	chunks := []document.ScoredChunk{
		scored("alpha", 0.9),
		scored("beta", 0.8),
		scored("gamma", 0.7),
	}
	prompt := c.Compose("q?", chunks)

	for _, sc := range chunks {
		assert.Contains(t, prompt, sc.Chunk.Text)
	}
}

func TestCompose_AllChunksDroppedFallsBackToNotice(t *testing.T) {
	c := NewComposer(WithMaxContextLength(1))

	prompt := c.Compose("q?", []document.ScoredChunk{
		scored(strings.Repeat("x", 500), 0.9),
	})

	require.NotContains(t, prompt, strings.Repeat("x", 500))
	assert.Contains(t, prompt, noContextNotice)
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}
