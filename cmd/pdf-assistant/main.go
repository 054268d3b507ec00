package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	assistant "github.com/me-nabi/pdf-assistant"
	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/embedder"
	googleembedder "github.com/me-nabi/pdf-assistant/embedder/google"
	openaiembedder "github.com/me-nabi/pdf-assistant/embedder/openai"
	"github.com/me-nabi/pdf-assistant/generator"
	anthropicgenerator "github.com/me-nabi/pdf-assistant/generator/anthropic"
	groqgenerator "github.com/me-nabi/pdf-assistant/generator/groq"
	openaigenerator "github.com/me-nabi/pdf-assistant/generator/openai"
	"github.com/me-nabi/pdf-assistant/history"
	historymemory "github.com/me-nabi/pdf-assistant/history/memory"
	historypostgres "github.com/me-nabi/pdf-assistant/history/postgres"
	"github.com/me-nabi/pdf-assistant/index"
	indexmemory "github.com/me-nabi/pdf-assistant/index/memory"
	indexpostgres "github.com/me-nabi/pdf-assistant/index/postgres"
	indexqdrant "github.com/me-nabi/pdf-assistant/index/qdrant"
	"github.com/me-nabi/pdf-assistant/internal/config"
	"github.com/me-nabi/pdf-assistant/loader"
	pdfloader "github.com/me-nabi/pdf-assistant/loader/pdf"
	httpserver "github.com/me-nabi/pdf-assistant/server/http"
)

var cfg struct {
	Config  string   `help:"Path to yaml config" default:"config.yaml"`
	Files   []string `help:"PDF files to load before chatting" type:"existingfile"`
	URLs    []string `help:"PDF URLs to load before chatting"`
	Serve   bool     `help:"Serve the assistant over HTTP instead of the interactive prompt"`
	Address string   `help:"HTTP listen address" default:":8080"`
}

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	conf, err := config.Load(cfg.Config)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a := assistant.New(
		newLoader(conf),
		newEmbedder(conf),
		newIndex(conf),
		newGenerator(conf),
		assistant.WithHistory(newHistory(conf)),
		assistant.WithTopK(conf.TopK),
		assistant.WithMaxContextLength(conf.MaxContextLength),
		assistant.WithParallelism(conf.Parallelism),
		assistant.WithTimeout(conf.Timeout()),
	)

	sources := collectSources(cfg.Files, cfg.URLs)
	if len(sources) > 0 {
		ingestAll(ctx, a, sources)
	}

	if cfg.Serve {
		server := httpserver.NewServer(a, httpserver.WithAddress(cfg.Address))
		if err := server.Run(); err != nil {
			log.Fatalf("http server failed: %v", err)
		}
		return
	}

	repl(ctx, a)
}

func collectSources(files []string, urls []string) []document.Source {
	var sources []document.Source

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("failed to read %s: %v", path, err)
		}
		sources = append(sources, document.Source{
			Id:   path,
			Kind: document.SourceKindBytes,
			Data: data,
		})
	}

	for _, url := range urls {
		sources = append(sources, document.Source{
			Id:   url,
			Kind: document.SourceKindURL,
			URL:  url,
		})
	}

	return sources
}

func ingestAll(ctx context.Context, a *assistant.Assistant, sources []document.Source) {
	fmt.Printf("Loading %d document(s)...\n", len(sources))

	result, err := a.StartIngestion(ctx, sources)
	if err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}

	for _, failure := range result.SourceFailures {
		fmt.Printf("skipped %s: %v\n", failure.SourceId, failure.Err)
	}

	fmt.Printf("Indexed %d chunk(s) into %s\n", result.ChunksIndexed, result.CollectionId)
}

func repl(ctx context.Context, a *assistant.Assistant) {
	fmt.Println("PDF assistant. Ask a question, or :clear / :quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case len(line) == 0:
			continue
		case line == ":quit":
			return
		case line == ":clear":
			if err := a.ClearTranscript(ctx); err != nil {
				fmt.Printf("failed to clear transcript: %v\n", err)
			}
			continue
		}

		answer, err := a.Ask(ctx, line)
		if err != nil && len(answer) == 0 {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Println(answer)
	}
}

func newLoader(conf *config.Config) loader.Loader {
	return pdfloader.NewLoader(
		loader.WithMaxChunkSize(conf.MaxChunkSize),
		loader.WithHTTPTimeout(conf.Timeout()),
	)
}

func newEmbedder(conf *config.Config) embedder.Embedder {
	opts := []embedder.Option{
		embedder.WithApiKey(config.APIKey(conf.Embedder.APIKeyEnv)),
		embedder.WithModel(conf.Embedder.Model),
		embedder.WithBaseURL(conf.Embedder.BaseURL),
		embedder.WithDimension(conf.Embedder.Dimension),
	}

	switch conf.Embedder.Provider {
	case "google":
		return googleembedder.NewEmbedder(opts...)
	default:
		return openaiembedder.NewEmbedder(opts...)
	}
}

func newIndex(conf *config.Config) index.Index {
	opts := []index.Option{
		index.WithLocation(conf.Index.Location),
		index.WithApiKey(config.APIKey(conf.Index.APIKeyEnv)),
	}

	switch conf.Index.Provider {
	case "postgres":
		return indexpostgres.NewIndex(opts...)
	case "qdrant":
		return indexqdrant.NewIndex(opts...)
	default:
		return indexmemory.NewIndex(opts...)
	}
}

func newGenerator(conf *config.Config) generator.Generator {
	opts := []generator.Option{
		generator.WithApiKey(config.APIKey(conf.Generator.APIKeyEnv)),
		generator.WithModel(conf.Generator.Model),
		generator.WithBaseURL(conf.Generator.BaseURL),
	}

	switch conf.Generator.Provider {
	case "openai":
		return openaigenerator.NewGenerator(opts...)
	case "anthropic":
		return anthropicgenerator.NewGenerator(opts...)
	default:
		return groqgenerator.NewGenerator(opts...)
	}
}

func newHistory(conf *config.Config) history.History {
	switch conf.History.Provider {
	case "postgres":
		return historypostgres.NewHistory(
			history.WithLocation(conf.History.Location),
			history.WithTable(conf.History.Table),
		)
	default:
		return historymemory.NewHistory()
	}
}
