package postgres

import (
	"testing"

	"github.com/me-nabi/pdf-assistant/history"
	"github.com/stretchr/testify/assert"
)

func TestNewHistory_RejectsNonIdentifierTable(t *testing.T) {
	for _, table := range []string{
		"messages; DROP TABLE users",
		`messages"`,
		"pdf assistant",
		"",
	} {
		assert.PanicsWithValue(t, "invalid table name for postgres history", func() {
			NewHistory(
				history.WithLocation("postgres://localhost:5432/assistant"),
				history.WithTable(table),
			)
		}, "table %q", table)
	}
}

func TestTableNamePattern(t *testing.T) {
	assert.True(t, tableRe.MatchString("pdf_assistant_messages"))
	assert.True(t, tableRe.MatchString("_messages2"))
	assert.False(t, tableRe.MatchString("2messages"))
	assert.False(t, tableRe.MatchString("messages-archive"))
}
