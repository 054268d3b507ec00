package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Dimension int    `yaml:"dimension"`
}

// IndexConfig selects and configures the vector index provider.
type IndexConfig struct {
	Provider  string `yaml:"provider"`
	Location  string `yaml:"location"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// GeneratorConfig selects and configures the language model provider.
type GeneratorConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// HistoryConfig selects the transcript store.
type HistoryConfig struct {
	Provider string `yaml:"provider"`
	Location string `yaml:"location"`
	Table    string `yaml:"table"`
}

// Config is the root application configuration.
type Config struct {
	Embedder         EmbedderConfig  `yaml:"embedder"`
	Index            IndexConfig     `yaml:"index"`
	Generator        GeneratorConfig `yaml:"generator"`
	History          HistoryConfig   `yaml:"history"`
	TopK             int             `yaml:"top_k"`
	MaxChunkSize     int             `yaml:"max_chunk_size"`
	MaxContextLength int             `yaml:"max_context_length"`
	Parallelism      int             `yaml:"parallelism"`
	TimeoutSecs      int             `yaml:"timeout_secs"`
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// APIKey resolves the configured env var name to its value.
func APIKey(env string) string {
	return os.Getenv(env)
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Embedder.Dimension <= 0 {
		return fmt.Errorf("embedder dimension must be positive, got %d", c.Embedder.Dimension)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be >= 1, got %d", c.TopK)
	}
	switch c.Index.Provider {
	case "memory":
	case "postgres", "qdrant":
		if len(c.Index.Location) == 0 {
			return fmt.Errorf("index provider %s requires a location", c.Index.Provider)
		}
	default:
		return fmt.Errorf("unknown index provider %s", c.Index.Provider)
	}
	return nil
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if len(cfg.Embedder.Provider) == 0 {
		cfg.Embedder.Provider = "openai"
	}
	if len(cfg.Embedder.Model) == 0 {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if len(cfg.Embedder.APIKeyEnv) == 0 {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 1536
	}
	if len(cfg.Index.Provider) == 0 {
		cfg.Index.Provider = "memory"
	}
	if len(cfg.Generator.Provider) == 0 {
		cfg.Generator.Provider = "groq"
	}
	if len(cfg.Generator.Model) == 0 {
		cfg.Generator.Model = "llama-3.3-70b-versatile"
	}
	if len(cfg.Generator.APIKeyEnv) == 0 {
		cfg.Generator.APIKeyEnv = "GROQ_API_KEY"
	}
	if len(cfg.History.Provider) == 0 {
		cfg.History.Provider = "memory"
	}
	if len(cfg.History.Table) == 0 {
		cfg.History.Table = "pdf_assistant_messages"
	}
	if cfg.TopK == 0 {
		cfg.TopK = 5
	}
	if cfg.MaxChunkSize == 0 {
		cfg.MaxChunkSize = 1000
	}
	if cfg.MaxContextLength == 0 {
		cfg.MaxContextLength = 12000
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = 4
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = 30
	}
}
