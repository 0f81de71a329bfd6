package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"concierge/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, env := range []string{EnvOpenAIKey, EnvStoreAPIKey, EnvCalendarCredentials, EnvJWTSecret, EnvGitHubToken} {
		t.Setenv(env, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, planner.ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, planner.DefaultMaxTokens, cfg.MaxTokens)
	assert.False(t, cfg.LLMConfigured())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
openai_key: sk-file
model: gpt-4o-mini
llm_timeout: 15s
max_tokens: 800
database:
  driver: postgres
  url: postgres://localhost/concierge
inventory:
  backend: database
  document_key: home
api:
  port: 9000
catalog:
  Saffron:
    price: 9.5
    unit: jar
    store_id: SAFF001
  pasta:
    price: 1.49
    unit: box
    available: false
    store_id: PAST001
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-file", cfg.OpenAIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 800, cfg.MaxTokens)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, BackendDatabase, cfg.Inventory.Backend)
	assert.Equal(t, "home", cfg.Inventory.DocumentKey)
	assert.Equal(t, "fridge_inventory.json", cfg.Inventory.Path, "unset keys keep defaults")
	assert.Equal(t, 9000, cfg.API.Port)
	assert.True(t, cfg.Metrics.Enabled)

	entries := cfg.CatalogEntries()
	require.Len(t, entries, 2)
	assert.True(t, entries["Saffron"].Available)
	assert.Equal(t, "9.5", entries["Saffron"].UnitPrice.String())
	assert.False(t, entries["pasta"].Available)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOpenAIKey, "sk-env")
	t.Setenv(EnvJWTSecret, "secret")
	t.Setenv(EnvStoreAPIKey, "store")

	cfg, err := Load(writeConfig(t, "openai_key: sk-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.OpenAIKey)
	assert.Equal(t, "secret", cfg.API.JWTSecret)
	assert.Equal(t, "store", cfg.StoreAPIKey)
	assert.True(t, cfg.LLMConfigured())
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	cases := map[string]string{
		"bad yaml":       "inventory: [",
		"bad backend":    "inventory:\n  backend: s3\n",
		"bad provider":   "llm_provider: cohere\n",
		"zero timeout":   "llm_timeout: 0s\n",
		"zero tokens":    "max_tokens: 0\n",
		"negative price": "catalog:\n  milk:\n    price: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_GitHubModelsProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGitHubToken, "ghp-env")

	cfg, err := Load(writeConfig(t, "llm_provider: github_models\nopenai_key: sk-unused\n"))
	require.NoError(t, err)
	assert.Equal(t, "ghp-env", cfg.LLMToken())
	assert.True(t, cfg.LLMConfigured())
}
