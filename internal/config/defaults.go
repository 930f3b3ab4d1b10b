package config

// EmbeddingSpec describes the provider and model a preset resolves to.
type EmbeddingSpec struct {
	Provider   ProviderType
	Model      string
	Dimensions int
}

// embeddingPresets maps each preset to its provider/model choice. The
// medical and local presets run against Ollama so patient documents
// never leave the machine.
var embeddingPresets = map[EmbeddingPreset]EmbeddingSpec{
	PresetFast:     {Provider: ProviderOpenAI, Model: "text-embedding-3-small", Dimensions: 1536},
	PresetBalanced: {Provider: ProviderOpenAI, Model: "text-embedding-3-large", Dimensions: 3072},
	PresetMedical:  {Provider: ProviderOllama, Model: "mxbai-embed-large", Dimensions: 1024},
	PresetLocal:    {Provider: ProviderOllama, Model: "nomic-embed-text", Dimensions: 768},
}

// DefaultExcludes are glob patterns skipped during directory ingestion.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/README.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	spec := embeddingPresets[PresetFast]
	return &Config{
		Preset:              PresetFast,
		EmbeddingProvider:   spec.Provider,
		EmbeddingModel:      spec.Model,
		EmbeddingDimensions: spec.Dimensions,
		OllamaBaseURL:       "http://localhost:11434",
		TokenizerEncoding:   "cl100k_base",
		ChunkSize:           300,
		ChunkOverlap:        50,
		Collection:          "patient_docs",
		DataDir:             ".medrag",
		Persist:             true,
		Compress:            false,
		Include:             []string{"**/*.txt", "**/*.md"},
		Exclude:             DefaultExcludes,
		BatchSize:           32,
		MaxConcurrency:      4,
	}
}

// GetPreset returns the embedding spec for the given preset. Returns
// the fast preset if the name is not recognized.
func GetPreset(preset EmbeddingPreset) EmbeddingSpec {
	if spec, ok := embeddingPresets[preset]; ok {
		return spec
	}
	return embeddingPresets[PresetFast]
}
