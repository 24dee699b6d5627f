// Command saori-kb manages a document knowledge base for
// retrieval-augmented chat.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/saori-labs/saori-kb/internal/adapters/driving/cli"
	"github.com/saori-labs/saori-kb/internal/config"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/core/services"
	"github.com/saori-labs/saori-kb/internal/embedding"
	"github.com/saori-labs/saori-kb/internal/embedding/openai"
	"github.com/saori-labs/saori-kb/internal/extractors"
	"github.com/saori-labs/saori-kb/internal/logger"
	"github.com/saori-labs/saori-kb/internal/splitter"
	"github.com/saori-labs/saori-kb/internal/storage/jsonfile"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for the API key; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	index, err := jsonfile.NewIndexStore(cfg.IndexFile())
	if err != nil {
		return err
	}
	chunks, err := jsonfile.NewChunkStore(cfg.ChunksDir())
	if err != nil {
		return err
	}
	files, err := jsonfile.NewFileStore(cfg.DocumentsDir())
	if err != nil {
		return err
	}

	registry := extractors.Defaults()

	processor := services.NewProcessor(
		index, chunks, files,
		registry,
		splitter.New(splitter.WithChunkSize(cfg.Splitter.ChunkSize)),
		embedder(cfg),
		services.WithMinSimilarity(cfg.Search.MinSimilarity),
	)
	retriever := services.NewRetriever(processor)

	cli.Configure(cfg, processor, retriever, registry)
	return cli.Execute(version)
}

// embedder builds the embedding pipeline: API client, LRU cache, then
// the bounded-retry generator. Without an API key the generator runs
// client-less and every chunk falls back to lexical matching.
func embedder(cfg config.Config) driven.EmbeddingGenerator {
	policy := embedding.RetryPolicy{
		MaxAttempts: cfg.Embedding.MaxAttempts,
		Delay:       cfg.Embedding.RetryDelay(),
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Warn("OPENAI_API_KEY not set, documents will be matched lexically only")
		return embedding.NewGenerator(nil, policy)
	}

	client, err := openai.New(openai.Config{
		APIKey:            apiKey,
		BaseURL:           cfg.Embedding.BaseURL,
		Model:             cfg.Embedding.Model,
		Timeout:           cfg.Embedding.EmbeddingTimeout(),
		Dimensions:        cfg.Embedding.Dimensions,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		Burst:             cfg.Embedding.Burst,
	})
	if err != nil {
		logger.Warn("embedding client unavailable: %v", err)
		return embedding.NewGenerator(nil, policy)
	}

	var embeddingClient driven.EmbeddingClient = client
	if cfg.Embedding.CacheSize > 0 {
		embeddingClient = embedding.WithCache(client, cfg.Embedding.CacheSize, cfg.Embedding.CacheTTL())
	}
	return embedding.NewGenerator(embeddingClient, policy)
}

// configPath resolves the config file location: the SAORI_KB_CONFIG
// environment variable, else config.toml in the default data directory.
func configPath() string {
	if path := os.Getenv("SAORI_KB_CONFIG"); path != "" {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, config.DefaultDataDirName, "config.toml")
	}
	return filepath.Join(config.DefaultDataDirName, "config.toml")
}
