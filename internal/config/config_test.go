package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Embedder.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	assert.Equal(t, 1536, cfg.Embedder.Dimension)
	assert.Equal(t, "memory", cfg.Index.Provider)
	assert.Equal(t, "groq", cfg.Generator.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Generator.Model)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 1000, cfg.MaxChunkSize)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoad_FileOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
embedder:
  dimension: 768
index:
  provider: qdrant
  location: http://localhost:6333
top_k: 3
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 768, cfg.Embedder.Dimension)
	assert.Equal(t, "qdrant", cfg.Index.Provider)
	assert.Equal(t, "http://localhost:6333", cfg.Index.Location)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, "openai", cfg.Embedder.Provider)
	assert.Equal(t, "groq", cfg.Generator.Provider)
}

func TestLoad_RejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [not a mapping"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "negative dimension", mutate: func(c *Config) { c.Embedder.Dimension = -1 }, wantErr: true},
		{name: "zero top_k", mutate: func(c *Config) { c.TopK = 0 }, wantErr: true},
		{name: "postgres without location", mutate: func(c *Config) { c.Index.Provider = "postgres" }, wantErr: true},
		{name: "postgres with location", mutate: func(c *Config) {
			c.Index.Provider = "postgres"
			c.Index.Location = "postgres://localhost:5432/assistant"
		}},
		{name: "unknown index provider", mutate: func(c *Config) { c.Index.Provider = "sqlite" }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
