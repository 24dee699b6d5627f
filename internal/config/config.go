// Package config loads the engine configuration from a TOML file.
// A missing file yields the defaults; only a malformed file is an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultDataDirName   = ".saori-kb"
	DefaultChunkSize     = 1000
	DefaultMinSimilarity = 0.1
	DefaultMaxChunks     = 5
	DefaultMaxChars      = 6000
)

// Config is the engine configuration.
type Config struct {
	// DataDir is the root directory holding index.json, the chunks
	// directory and the documents directory.
	DataDir string `toml:"data_dir"`

	Embedding EmbeddingConfig `toml:"embedding"`
	Splitter  SplitterConfig  `toml:"splitter"`
	Search    SearchConfig    `toml:"search"`
	Retriever RetrieverConfig `toml:"retriever"`
}

// EmbeddingConfig configures the external embedding service client.
type EmbeddingConfig struct {
	// BaseURL is the API base URL. Can point at any OpenAI-compatible
	// endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions"`

	// TimeoutSeconds bounds a single embedding request.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// MaxAttempts is the bounded retry budget per text.
	MaxAttempts int `toml:"max_attempts"`

	// RetryDelayMillis is the fixed delay between attempts.
	RetryDelayMillis int `toml:"retry_delay_millis"`

	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Burst is the rate limiter burst size.
	Burst int `toml:"burst"`

	// CacheSize is the LRU embedding cache capacity (0 disables it).
	CacheSize int `toml:"cache_size"`

	// CacheTTLMinutes is the cache entry lifetime.
	CacheTTLMinutes int `toml:"cache_ttl_minutes"`
}

// SplitterConfig configures the paragraph splitter.
type SplitterConfig struct {
	// ChunkSize is the accumulation threshold in characters.
	ChunkSize int `toml:"chunk_size"`
}

// SearchConfig configures result scoring.
type SearchConfig struct {
	// MinSimilarity is the cosine similarity inclusion threshold.
	// Lower values favour recall over precision.
	MinSimilarity float64 `toml:"min_similarity"`
}

// RetrieverConfig configures knowledge block assembly.
type RetrieverConfig struct {
	// MaxChunks caps the number of chunks injected into a prompt.
	MaxChunks int `toml:"max_chunks"`

	// MaxChars is the character budget for the knowledge block.
	MaxChars int `toml:"max_chars"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	dataDir := DefaultDataDirName
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, DefaultDataDirName)
	}

	return Config{
		DataDir: dataDir,
		Embedding: EmbeddingConfig{
			BaseURL:           "https://api.openai.com/v1",
			Model:             "text-embedding-3-small",
			TimeoutSeconds:    60,
			MaxAttempts:       3,
			RetryDelayMillis:  1000,
			RequestsPerSecond: 5.0,
			Burst:             10,
			CacheSize:         2048,
			CacheTTLMinutes:   60,
		},
		Splitter:  SplitterConfig{ChunkSize: DefaultChunkSize},
		Search:    SearchConfig{MinSimilarity: DefaultMinSimilarity},
		Retriever: RetrieverConfig{MaxChunks: DefaultMaxChunks, MaxChars: DefaultMaxChars},
	}
}

// Load reads the TOML file at path, layering it over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// IndexFile returns the path of the document index JSON file.
func (c Config) IndexFile() string {
	return filepath.Join(c.DataDir, "document_index.json")
}

// ChunksDir returns the chunk store directory.
func (c Config) ChunksDir() string {
	return filepath.Join(c.DataDir, "document_chunks")
}

// DocumentsDir returns the stored documents directory.
func (c Config) DocumentsDir() string {
	return filepath.Join(c.DataDir, "documents")
}

// EmbeddingTimeout returns the request timeout as a duration.
func (c EmbeddingConfig) EmbeddingTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the delay between attempts as a duration.
func (c EmbeddingConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

// CacheTTL returns the embedding cache entry lifetime.
func (c EmbeddingConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
