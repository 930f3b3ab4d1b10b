package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .medrag.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to medrag! Let's configure your document index.")
	fmt.Println()

	// 1. Embedding preset.
	presetPrompt := promptui.Select{
		Label: "Select embedding preset",
		Items: []string{
			"fast     — OpenAI text-embedding-3-small",
			"balanced — OpenAI text-embedding-3-large",
			"medical  — local Ollama mxbai-embed-large",
			"local    — local Ollama nomic-embed-text",
		},
	}
	presetIdx, _, err := presetPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("preset selection: %w", err)
	}
	presets := []EmbeddingPreset{PresetFast, PresetBalanced, PresetMedical, PresetLocal}
	preset := presets[presetIdx]
	spec := GetPreset(preset)

	// 2. Document directory.
	dataPrompt := promptui.Prompt{
		Label:   "Index data directory",
		Default: ".medrag",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Chunking parameters.
	sizePrompt := promptui.Prompt{
		Label:    "Chunk size (tokens)",
		Default:  "300",
		Validate: validatePositiveInt,
	}
	sizeStr, err := sizePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chunk size: %w", err)
	}
	chunkSize, _ := strconv.Atoi(sizeStr)

	overlapPrompt := promptui.Prompt{
		Label:    "Chunk overlap (tokens)",
		Default:  "50",
		Validate: validateNonNegativeInt,
	}
	overlapStr, err := overlapPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chunk overlap: %w", err)
	}
	chunkOverlap, _ := strconv.Atoi(overlapStr)

	// 4. Include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: "**/*.txt, **/*.md",
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	include := splitAndTrim(includeStr)

	cfg := DefaultConfig()
	cfg.Preset = preset
	cfg.EmbeddingProvider = spec.Provider
	cfg.EmbeddingModel = spec.Model
	cfg.EmbeddingDimensions = spec.Dimensions
	cfg.DataDir = dataDir
	cfg.ChunkSize = chunkSize
	cfg.ChunkOverlap = chunkOverlap
	cfg.Include = include

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	envVar := APIKeyEnvVar(cfg.EmbeddingProvider)
	if envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running medrag ingest.\n", envVar)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
