package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Preset != PresetFast {
		t.Errorf("expected default preset %q, got %q", PresetFast, cfg.Preset)
	}
	if cfg.EmbeddingProvider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.EmbeddingProvider)
	}
	if cfg.ChunkSize != 300 || cfg.ChunkOverlap != 50 {
		t.Errorf("expected default chunking 300/50, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.Collection != "patient_docs" {
		t.Errorf("expected default collection %q, got %q", "patient_docs", cfg.Collection)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.medrag.yml")

	original := DefaultConfig()
	original.Preset = PresetLocal
	original.EmbeddingProvider = ProviderOllama
	original.EmbeddingModel = "nomic-embed-text"
	original.EmbeddingDimensions = 768
	original.ChunkSize = 200
	original.Include = []string{"**/*.txt"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Preset != original.Preset {
		t.Errorf("preset: got %q, want %q", loaded.Preset, original.Preset)
	}
	if loaded.EmbeddingProvider != original.EmbeddingProvider {
		t.Errorf("embedding_provider: got %q, want %q", loaded.EmbeddingProvider, original.EmbeddingProvider)
	}
	if loaded.EmbeddingModel != original.EmbeddingModel {
		t.Errorf("embedding_model: got %q, want %q", loaded.EmbeddingModel, original.EmbeddingModel)
	}
	if loaded.ChunkSize != original.ChunkSize {
		t.Errorf("chunk_size: got %d, want %d", loaded.ChunkSize, original.ChunkSize)
	}
	if len(loaded.Include) != 1 || loaded.Include[0] != "**/*.txt" {
		t.Errorf("include: got %v, want [**/*.txt]", loaded.Include)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Preset != PresetFast {
		t.Errorf("expected default preset, got %q", cfg.Preset)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("MEDRAG_COLLECTION", "trial_docs")
	defer os.Unsetenv("MEDRAG_COLLECTION")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Collection != "trial_docs" {
		t.Errorf("env override failed: got %q, want %q", loaded.Collection, "trial_docs")
	}
}

func TestLoadAppliesPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	if err := os.WriteFile(path, []byte("preset: medical\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// The file names only the preset; provider/model/dimensions are
	// overridden from it since the YAML left them unset.
	if loaded.Preset != PresetMedical {
		t.Errorf("preset: got %q, want medical", loaded.Preset)
	}
	if loaded.EmbeddingModel != "mxbai-embed-large" {
		t.Errorf("embedding_model: got %q, want mxbai-embed-large", loaded.EmbeddingModel)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalidPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = "turbo"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid preset")
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmbeddingProvider = "invalid"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid embedding_provider")
	}
}

func TestValidateEmptyModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmbeddingModel = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty embedding_model")
	}
}

func TestValidateOverlapNotSmallerThanSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for overlap >= chunk_size")
	}
}

func TestValidateNegativeConcurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrency = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative max_concurrency")
	}
}

func TestValidatePersistNeedsDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for persist without data_dir")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset(PresetMedical)
	if p.Provider != ProviderOllama || p.Model != "mxbai-embed-large" {
		t.Errorf("medical preset = %+v, want ollama mxbai-embed-large", p)
	}

	p = GetPreset(PresetBalanced)
	if p.Model != "text-embedding-3-large" || p.Dimensions != 3072 {
		t.Errorf("balanced preset = %+v, want text-embedding-3-large/3072", p)
	}

	// Unknown preset falls back.
	p = GetPreset("unknown")
	if p.Model != "text-embedding-3-small" {
		t.Errorf("expected fallback to fast preset, got %q", p.Model)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" **/*.txt , **/*.md ", []string{"**/*.txt", "**/*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
