package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is where the configuration file lives by default.
const DefaultPath = ".medrag.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MEDRAG_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: MEDRAG_CHUNK_SIZE -> chunk_size, etc.
	if err := k.Load(env.Provider("MEDRAG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MEDRAG_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// The preset decides provider, model, and dimensions unless the
	// file or environment set them explicitly.
	if cfg.Preset != "" {
		spec := GetPreset(cfg.Preset)
		if !k.Exists("embedding_provider") {
			cfg.EmbeddingProvider = spec.Provider
		}
		if !k.Exists("embedding_model") {
			cfg.EmbeddingModel = spec.Model
		}
		if !k.Exists("embedding_dimensions") {
			cfg.EmbeddingDimensions = spec.Dimensions
		}
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validPresets is the set of recognized preset values.
var validPresets = map[EmbeddingPreset]bool{
	PresetFast:     true,
	PresetBalanced: true,
	PresetMedical:  true,
	PresetLocal:    true,
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Preset != "" && !validPresets[c.Preset] {
		return fmt.Errorf("invalid preset %q: must be one of fast, balanced, medical, local", c.Preset)
	}

	if c.EmbeddingProvider == "" {
		return fmt.Errorf("embedding_provider is required")
	}
	if !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be openai or ollama", c.EmbeddingProvider)
	}

	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("embedding_dimensions must be positive")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must be non-negative")
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be smaller than chunk_size")
	}

	if c.Collection == "" {
		return fmt.Errorf("collection is required")
	}
	if c.Persist && c.DataDir == "" {
		return fmt.Errorf("data_dir is required when persist is enabled")
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
