package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kevinmichaelchen/repo-blurbs/internal/llm"
	"gopkg.in/yaml.v3"
)

// Supported text generation backends.
const (
	BackendOpenAI    = llm.BackendOpenAI
	BackendAnthropic = llm.BackendAnthropic
	BackendGemini    = llm.BackendGemini
)

type Config struct {
	GitHubAPIURL string `yaml:"github_api_url"`
	GitHubToken  string `yaml:"github_token"`

	LLMBackend string `yaml:"llm_backend"`
	LLMBaseURL string `yaml:"llm_base_url"`
	LLMAPIKey  string `yaml:"llm_api_key"`
	LLMModel   string `yaml:"llm_model"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`

	EmbeddingBaseURL string `yaml:"embedding_base_url"`
	EmbeddingAPIKey  string `yaml:"embedding_api_key"`
	EmbeddingModel   string `yaml:"embedding_model"`

	SurrealURL  string `yaml:"surreal_url"`
	SurrealNS   string `yaml:"surreal_ns"`
	SurrealDB   string `yaml:"surreal_db"`
	SurrealUser string `yaml:"surreal_user"`
	SurrealPass string `yaml:"surreal_pass"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads .env (if present), then the optional YAML file at path, then
// the environment. Environment variables win over the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	override(&cfg.GitHubAPIURL, "GITHUB_API_URL")
	override(&cfg.GitHubToken, "GITHUB_TOKEN")

	override(&cfg.LLMBackend, "LLM_BACKEND")
	override(&cfg.LLMBaseURL, "LLM_BASE_URL")
	override(&cfg.LLMAPIKey, "LLM_API_KEY")
	override(&cfg.LLMModel, "LLM_MODEL")

	override(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	override(&cfg.GeminiAPIKey, "GEMINI_API_KEY")

	override(&cfg.EmbeddingBaseURL, "EMBEDDING_BASE_URL")
	override(&cfg.EmbeddingAPIKey, "EMBEDDING_API_KEY")
	override(&cfg.EmbeddingModel, "EMBEDDING_MODEL")

	override(&cfg.SurrealURL, "SURREAL_URL")
	override(&cfg.SurrealNS, "SURREAL_NS")
	override(&cfg.SurrealDB, "SURREAL_DB")
	override(&cfg.SurrealUser, "SURREAL_USER")
	override(&cfg.SurrealPass, "SURREAL_PASS")

	override(&cfg.LogLevel, "LOG_LEVEL")
	override(&cfg.LogFormat, "LOG_FORMAT")

	cfg.applyDefaults()
	return cfg, nil
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	// The SDK appends /rpc automatically
	c.SurrealURL = strings.TrimSuffix(c.SurrealURL, "/rpc")
	c.SurrealURL = strings.TrimSuffix(c.SurrealURL, "/")

	if c.GitHubAPIURL == "" {
		c.GitHubAPIURL = "https://api.github.com"
	}
	c.GitHubAPIURL = strings.TrimSuffix(c.GitHubAPIURL, "/")

	c.LLMBackend = strings.ToLower(strings.TrimSpace(c.LLMBackend))
	if c.LLMBackend == "" {
		c.LLMBackend = BackendOpenAI
	}
	if c.LLMBaseURL == "" && c.LLMBackend == BackendOpenAI {
		c.LLMBaseURL = "http://localhost:8000/v1"
	}
	if c.LLMModel == "" {
		c.LLMModel = "distilgpt2"
	}

	if c.EmbeddingBaseURL == "" {
		c.EmbeddingBaseURL = "https://api.openai.com/v1"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-3-small"
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

// Validate reports settings that cannot work regardless of which command runs.
func (c *Config) Validate() error {
	switch c.LLMBackend {
	case BackendOpenAI, BackendAnthropic, BackendGemini:
	default:
		return fmt.Errorf("unknown LLM backend %q (want %s, %s or %s)",
			c.LLMBackend, BackendOpenAI, BackendAnthropic, BackendGemini)
	}
	if c.GitHubAPIURL == "" {
		return errors.New("GitHub API URL cannot be empty")
	}
	return nil
}

// Generator returns the settings for building the configured text generator.
func (c *Config) Generator() llm.GeneratorConfig {
	return llm.GeneratorConfig{
		Backend: c.LLMBackend,
		BaseURL: c.LLMBaseURL,
		APIKey:  c.GeneratorAPIKey(),
		Model:   c.LLMModel,
	}
}

// GeneratorAPIKey returns the credential for the selected backend. The
// generic LLM_API_KEY is used when no backend-specific key is set.
func (c *Config) GeneratorAPIKey() string {
	switch c.LLMBackend {
	case BackendAnthropic:
		if c.AnthropicAPIKey != "" {
			return c.AnthropicAPIKey
		}
	case BackendGemini:
		if c.GeminiAPIKey != "" {
			return c.GeminiAPIKey
		}
	}
	return c.LLMAPIKey
}
