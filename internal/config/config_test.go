package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, "lexicon", cfg.Sentiment.Provider)
	assert.Equal(t, 4, cfg.Analysis.MaxWorkers)
	assert.Equal(t, 50, cfg.Analysis.MinSectionChars)
	assert.Equal(t, 2000, cfg.Analysis.MaxVocabularyTerms)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
analysis:
  max_workers: 8
observability:
  log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Analysis.MaxWorkers)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	// Untouched values keep defaults.
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_URL", "sqlite:/tmp/test.db")
	t.Setenv("SENTIMENT_PROVIDER", "lexicon")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLite.Path)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
}

func TestLoad_OpenAIKeySelectsProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Sentiment.Provider)
	assert.Equal(t, "sk-test", cfg.Sentiment.OpenAIAPIKey)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Cache.Driver = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Sentiment.Provider = "openai"
	assert.Error(t, cfg.Validate()) // key required

	cfg.Sentiment.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Analysis.MaxWorkers = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.SQLite.Path = "/data/app.db"
	assert.Equal(t, "/data/app.db", cfg.DatabaseDSN())

	cfg.Database.Driver = "postgres"
	cfg.Database.Postgres.DSN = "postgres://localhost/app"
	assert.Equal(t, "postgres://localhost/app", cfg.DatabaseDSN())
}
