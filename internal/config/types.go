package config

// EmbeddingPreset selects a provider/model pairing tuned for a
// speed/quality trade-off.
type EmbeddingPreset string

const (
	PresetFast     EmbeddingPreset = "fast"
	PresetBalanced EmbeddingPreset = "balanced"
	PresetMedical  EmbeddingPreset = "medical"
	PresetLocal    EmbeddingPreset = "local"
)

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level medrag configuration, corresponding to .medrag.yml.
type Config struct {
	Preset              EmbeddingPreset `yaml:"preset" koanf:"preset"`
	EmbeddingProvider   ProviderType    `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string          `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int             `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	OllamaBaseURL       string          `yaml:"ollama_base_url" koanf:"ollama_base_url"`
	TokenizerEncoding   string          `yaml:"tokenizer_encoding" koanf:"tokenizer_encoding"`
	ChunkSize           int             `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap        int             `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	Collection          string          `yaml:"collection" koanf:"collection"`
	DataDir             string          `yaml:"data_dir" koanf:"data_dir"`
	Persist             bool            `yaml:"persist" koanf:"persist"`
	Compress            bool            `yaml:"compress" koanf:"compress"`
	Include             []string        `yaml:"include" koanf:"include"`
	Exclude             []string        `yaml:"exclude" koanf:"exclude"`
	BatchSize           int             `yaml:"batch_size" koanf:"batch_size"`
	MaxConcurrency      int             `yaml:"max_concurrency" koanf:"max_concurrency"`
}
