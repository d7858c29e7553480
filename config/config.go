package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig selects and configures the text embedder implementation.
// Type is "local" for the bundled sentence transformer or "remote" for an
// OpenAI-compatible endpoint.
type EmbedderConfig struct {
	Type        string `yaml:"type"`
	BaseURL     string `yaml:"base_url,omitempty"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	Model       string `yaml:"model,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs,omitempty"`
	Dimension   int    `yaml:"dimension"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// GeneratorConfig selects and configures the LLM used for answers, quizzes
// and summaries. Type is "ollama" or "claude".
type GeneratorConfig struct {
	Type        string `yaml:"type"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Model       string `yaml:"model,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs,omitempty"`
}

// RetrievalConfig configures query defaults.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// CourseConfig labels ingested documents with course information.
type CourseConfig struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// AppConfig is the root application configuration structure. Database
// connection settings come from the environment, not from this file.
type AppConfig struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Generator GeneratorConfig `yaml:"generator"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Course    CourseConfig    `yaml:"course"`
	ImagesDir string          `yaml:"images_dir,omitempty"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "local"
	}
	if cfg.Embedder.Dimension <= 0 {
		cfg.Embedder.Dimension = 384
	}
	if cfg.Chunker.ChunkSize <= 0 {
		cfg.Chunker.ChunkSize = 512
	}
	if cfg.Chunker.ChunkOverlap < 0 || cfg.Chunker.ChunkOverlap >= cfg.Chunker.ChunkSize {
		cfg.Chunker.ChunkOverlap = 50
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "ollama"
	}
	if cfg.Generator.TimeoutSecs <= 0 {
		cfg.Generator.TimeoutSecs = 180
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = 5
	}
}
