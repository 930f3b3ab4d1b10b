package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clarityhealth/medrag/internal/catalog"
	"github.com/clarityhealth/medrag/internal/chunker"
	"github.com/clarityhealth/medrag/internal/config"
	"github.com/clarityhealth/medrag/internal/embeddings"
	"github.com/clarityhealth/medrag/internal/tokenizer"
	"github.com/clarityhealth/medrag/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `medrag init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.OllamaBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// storeOptions derives the vector store options from config.
func storeOptions(cfg *config.Config) vectordb.Options {
	opts := vectordb.Options{
		Collection: cfg.Collection,
		Compress:   cfg.Compress,
	}
	if cfg.Persist {
		opts.PersistDir = filepath.Join(cfg.DataDir, "vectordb")
	}
	return opts
}

// createStore opens the vector store, creating the collection if needed.
func createStore(cfg *config.Config, embedder embeddings.Embedder) (vectordb.VectorStore, error) {
	store, err := vectordb.NewChromemStore(embedder, storeOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return store, nil
}

// openStore opens the vector store without creating the collection.
// Query-side commands use this so a missing index surfaces as an error
// instead of silently becoming an empty collection.
func openStore(cfg *config.Config, embedder embeddings.Embedder) (vectordb.VectorStore, error) {
	store, err := vectordb.OpenChromemStore(embedder, storeOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return store, nil
}

// openCatalog opens the document catalog in the data directory.
func openCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	return catalog.Open(filepath.Join(cfg.DataDir, "catalog.db"))
}

// createChunker builds a chunker from the configured tokenizer and
// chunking parameters.
func createChunker(cfg *config.Config) *chunker.Chunker {
	counter := tokenizer.NewCounter(cfg.TokenizerEncoding)
	return chunker.New(cfg.ChunkSize, cfg.ChunkOverlap, counter)
}
