package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential is returned by collaborators that cannot work without an access key.
var ErrMissingCredential = errors.New("missing credential")

const (
	envUnsplashKey = "UNSPLASH_ACCESS_KEY"
	envTavilyKey   = "TAVILY_API_KEY"
	envOllamaURL   = "OLLAMA_BASE_URL"
)

// Config is loaded once per process and handed to constructors by value.
type Config struct {
	ContentRoot       string       `yaml:"content_root"`
	ImagePathPrefix   string       `yaml:"image_path_prefix"`
	SiteName          string       `yaml:"site_name"`
	ParallelResearch  bool         `yaml:"parallel_research"`
	MetricsFile       string       `yaml:"metrics_file"`
	PreambleWarnBytes int          `yaml:"preamble_warn_bytes"`
	LLM               LLMConfig    `yaml:"llm"`
	Search            SearchConfig `yaml:"search"`
	Images            ImageConfig  `yaml:"images"`
}

// LLMConfig describes the OpenAI-compatible endpoint and the models used per step.
type LLMConfig struct {
	Provider         string        `yaml:"provider"`
	BaseURL          string        `yaml:"base_url"`
	APIKey           string        `yaml:"api_key"`
	SlugModel        string        `yaml:"slug_model"`
	KeywordModel     string        `yaml:"keyword_model"`
	OutlineModel     string        `yaml:"outline_model"`
	DraftModel       string        `yaml:"draft_model"`
	OutlineKeepAlive string        `yaml:"outline_keep_alive"`
	DraftKeepAlive   string        `yaml:"draft_keep_alive"`
	Timeout          time.Duration `yaml:"timeout"`
}

// SearchConfig configures the web-search collaborator.
type SearchConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
}

// ImageConfig configures stock-photo lookup and thumbnail download.
type ImageConfig struct {
	AccessKey       string        `yaml:"access_key"`
	BaseURL         string        `yaml:"base_url"`
	FallbackQuery   string        `yaml:"fallback_query"`
	SearchTimeout   time.Duration `yaml:"search_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	MaxWidth        int           `yaml:"max_width"`
}

// Load reads the YAML file at path. A missing file yields the defaults so the
// agent can run from environment variables alone. A relative content_root is
// made absolute against the working directory.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.ApplyDefaults()
	cfg.ApplyEnv(os.LookupEnv)

	abs, err := filepath.Abs(cfg.ContentRoot)
	if err != nil {
		return Config{}, fmt.Errorf("resolve content_root: %w", err)
	}
	cfg.ContentRoot = abs

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset options.
func (c *Config) ApplyDefaults() {
	if c.ContentRoot == "" {
		c.ContentRoot = filepath.Join("content", "blog")
	}
	if c.ImagePathPrefix == "" {
		c.ImagePathPrefix = "/blog"
	}
	if c.SiteName == "" {
		c.SiteName = "codeflaming.eu"
	}
	if c.PreambleWarnBytes == 0 {
		c.PreambleWarnBytes = 2048
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
	}
	if c.LLM.BaseURL == "" && c.LLM.Provider == "ollama" {
		c.LLM.BaseURL = "http://127.0.0.1:11434/v1"
	}
	if c.LLM.SlugModel == "" {
		c.LLM.SlugModel = "qwen2.5-coder:7b"
	}
	if c.LLM.KeywordModel == "" {
		c.LLM.KeywordModel = c.LLM.SlugModel
	}
	if c.LLM.OutlineModel == "" {
		c.LLM.OutlineModel = "deepseek-r1:7b"
	}
	if c.LLM.DraftModel == "" {
		c.LLM.DraftModel = "qwen2.5-coder:7b"
	}
	if c.LLM.OutlineKeepAlive == "" {
		c.LLM.OutlineKeepAlive = "1h"
	}
	if c.LLM.DraftKeepAlive == "" {
		c.LLM.DraftKeepAlive = "10m"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}

	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://api.tavily.com"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 3
	}

	if c.Images.BaseURL == "" {
		c.Images.BaseURL = "https://api.unsplash.com"
	}
	if c.Images.FallbackQuery == "" {
		c.Images.FallbackQuery = "software development code"
	}
	if c.Images.SearchTimeout == 0 {
		c.Images.SearchTimeout = 10 * time.Second
	}
	if c.Images.DownloadTimeout == 0 {
		c.Images.DownloadTimeout = 20 * time.Second
	}
	if c.Images.MaxWidth == 0 {
		c.Images.MaxWidth = 1200
	}
}

// ApplyEnv overlays credentials and the model endpoint from the environment.
// Environment values win over the file.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(envUnsplashKey); ok && strings.TrimSpace(v) != "" {
		c.Images.AccessKey = strings.TrimSpace(v)
	}
	if v, ok := lookup(envTavilyKey); ok && strings.TrimSpace(v) != "" {
		c.Search.APIKey = strings.TrimSpace(v)
	}
	if v, ok := lookup(envOllamaURL); ok && strings.TrimSpace(v) != "" {
		c.LLM.BaseURL = strings.TrimSpace(v)
	}
}

// Validate checks the loaded configuration. Credentials are not required here:
// their absence degrades the matching pipeline step instead.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.ContentRoot, validation.Required),
		validation.Field(&c.ImagePathPrefix, validation.Required, validation.By(func(value any) error {
			if !strings.HasPrefix(value.(string), "/") {
				return validation.NewError("config.image_path_prefix", "must start with /")
			}
			return nil
		})),
		validation.Field(&c.PreambleWarnBytes, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	err = validation.ValidateStruct(&c.LLM,
		validation.Field(&c.LLM.Provider, validation.Required, validation.In("ollama", "openai", "deepseek", "mock")),
		validation.Field(&c.LLM.SlugModel, validation.Required),
		validation.Field(&c.LLM.OutlineModel, validation.Required),
		validation.Field(&c.LLM.DraftModel, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("invalid llm config: %w", err)
	}

	err = validation.ValidateStruct(&c.Search,
		validation.Field(&c.Search.BaseURL, validation.Required),
		validation.Field(&c.Search.MaxResults, validation.Min(1), validation.Max(20)),
	)
	if err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}

	err = validation.ValidateStruct(&c.Images,
		validation.Field(&c.Images.BaseURL, validation.Required),
		validation.Field(&c.Images.MaxWidth, validation.Min(16)),
	)
	if err != nil {
		return fmt.Errorf("invalid images config: %w", err)
	}
	return nil
}
