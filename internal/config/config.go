// Package config loads the concierge configuration from YAML with
// environment overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"concierge/internal/models"
	"concierge/internal/planner"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Inventory backends
const (
	BackendFile     = "file"
	BackendDatabase = "database"
)

// Environment variables that override file values
const (
	EnvOpenAIKey           = "OPENAI_API_KEY"
	EnvStoreAPIKey         = "STORE_API_KEY"
	EnvCalendarCredentials = "CALENDAR_CREDENTIALS"
	EnvJWTSecret           = "CONCIERGE_JWT_SECRET"
	EnvGitHubToken         = "GITHUB_TOKEN"
)

// Config represents the application configuration
type Config struct {
	LLMProvider         string        `yaml:"llm_provider"`
	OpenAIKey           string        `yaml:"openai_key"`
	GitHubToken         string        `yaml:"github_token"`
	OpenAIBaseURL       string        `yaml:"openai_base_url"`
	Model               string        `yaml:"model"`
	LLMTimeout          time.Duration `yaml:"llm_timeout"`
	MaxTokens           int           `yaml:"max_tokens"`
	StoreAPIKey         string        `yaml:"store_api_key"`
	CalendarCredentials string        `yaml:"calendar_credentials"`
	LogLevel            string        `yaml:"log_level"`

	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`

	Inventory struct {
		Backend     string `yaml:"backend"`
		Path        string `yaml:"path"`
		DocumentKey string `yaml:"document_key"`
	} `yaml:"inventory"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`

	API struct {
		Port      int    `yaml:"port"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"api"`

	Catalog map[string]CatalogOverride `yaml:"catalog"`
}

// CatalogOverride adds or replaces one catalog product
type CatalogOverride struct {
	Price     float64 `yaml:"price"`
	Unit      string  `yaml:"unit"`
	Available *bool   `yaml:"available"`
	StoreID   string  `yaml:"store_id"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		LLMProvider: planner.ProviderOpenAI,
		Model:       planner.DefaultModel,
		LLMTimeout:  planner.DefaultTimeout,
		MaxTokens:   planner.DefaultMaxTokens,
		LogLevel:    "info",
	}
	cfg.Database.Driver = "sqlite"
	cfg.Database.URL = "concierge.db"
	cfg.Inventory.Backend = BackendFile
	cfg.Inventory.Path = "fridge_inventory.json"
	cfg.Inventory.DocumentKey = "fridge_inventory"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	cfg.API.Port = 8080
	return cfg
}

// Load reads the file at path over the defaults. A missing file is not an
// error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for env, field := range map[string]*string{
		EnvOpenAIKey:           &c.OpenAIKey,
		EnvStoreAPIKey:         &c.StoreAPIKey,
		EnvCalendarCredentials: &c.CalendarCredentials,
		EnvJWTSecret:           &c.API.JWTSecret,
		EnvGitHubToken:         &c.GitHubToken,
	} {
		if v, ok := lookup(env); ok && v != "" {
			*field = v
		}
	}
}

// Validate checks values the rest of the program depends on
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case planner.ProviderOpenAI, planner.ProviderGitHubModels:
	default:
		return fmt.Errorf("unknown llm_provider %q", c.LLMProvider)
	}
	switch c.Inventory.Backend {
	case BackendFile, BackendDatabase:
	default:
		return fmt.Errorf("unknown inventory backend %q", c.Inventory.Backend)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("llm_timeout must be positive, got %s", c.LLMTimeout)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	for name, o := range c.Catalog {
		if o.Price < 0 {
			return fmt.Errorf("catalog entry %q has negative price", name)
		}
	}
	return nil
}

// CatalogEntries converts the overrides to catalog entries. Products are
// available unless the override says otherwise.
func (c *Config) CatalogEntries() map[string]models.CatalogEntry {
	entries := make(map[string]models.CatalogEntry, len(c.Catalog))
	for name, o := range c.Catalog {
		available := true
		if o.Available != nil {
			available = *o.Available
		}
		entries[name] = models.CatalogEntry{
			UnitPrice: decimal.NewFromFloat(o.Price),
			Unit:      o.Unit,
			Available: available,
			CatalogID: o.StoreID,
		}
	}
	return entries
}

// LLMToken returns the credential for the configured provider
func (c *Config) LLMToken() string {
	if c.LLMProvider == planner.ProviderGitHubModels {
		return c.GitHubToken
	}
	return c.OpenAIKey
}

// LLMConfigured reports whether a live meal planner can be built
func (c *Config) LLMConfigured() bool {
	return c.LLMToken() != ""
}
