package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen/internal/config"
	"github.com/sells-group/leadgen/internal/store"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store:   config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "leadgen.db")},
		Acquire: config.AcquireConfig{TimeoutSecs: 5},
		Extract: config.ExtractConfig{Strategy: config.StrategyFieldMap, Backend: config.BackendAnthropic},
		Serper:  config.SerperConfig{Zoom: 14},
	}
}

func TestPipelineEnv_Close_Nil(t *testing.T) {
	pe := &pipelineEnv{}
	assert.NotPanics(t, func() {
		pe.Close()
	})
}

func TestInitStore_SQLite(t *testing.T) {
	cfg = sqliteConfig(t)

	st, err := initStore(context.Background())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	assert.IsType(t, &store.SQLiteStore{}, st)
}

func TestInitStore_None(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "none"}}

	st, err := initStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.Noop{}, st)
}

func TestInitStore_Unsupported(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "mysql"}}

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestInitPipeline_FieldMapWithoutKeys(t *testing.T) {
	cfg = sqliteConfig(t)

	env, err := initPipeline(context.Background(), "pipeline")
	require.NoError(t, err)
	defer env.Close()

	assert.NotNil(t, env.Pipeline)
	assert.NotNil(t, env.Store)
	assert.Nil(t, env.Chat)
}

func TestInitPipeline_ChatEnabledWithKey(t *testing.T) {
	cfg = sqliteConfig(t)
	cfg.Anthropic = config.AnthropicConfig{Key: "sk-test", Model: "claude-haiku-4-5-20251001"}

	env, err := initPipeline(context.Background(), "pipeline")
	require.NoError(t, err)
	defer env.Close()

	assert.NotNil(t, env.Chat)
}

func TestInitPipeline_ModelStrategyRequiresKey(t *testing.T) {
	cfg = sqliteConfig(t)
	cfg.Extract.Strategy = config.StrategyModel

	env, err := initPipeline(context.Background(), "pipeline")
	assert.Nil(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key")
}

func TestInitPipeline_FailsValidation(t *testing.T) {
	cfg = &config.Config{Store: config.StoreConfig{Driver: "postgres"}}

	env, err := initPipeline(context.Background(), "pipeline")
	assert.Nil(t, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")
}

func TestInitModel_NoKeyNotRequired(t *testing.T) {
	cfg = &config.Config{Extract: config.ExtractConfig{Backend: config.BackendGemini}}

	m, err := initModel(context.Background(), false)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestInitModel_UnknownBackend(t *testing.T) {
	cfg = &config.Config{Extract: config.ExtractConfig{Backend: "llama"}}

	_, err := initModel(context.Background(), false)
	require.Error(t, err)
}

func TestProviders_DisabledWithoutKeys(t *testing.T) {
	cfg = &config.Config{}

	assert.Nil(t, initSearchProvider())
	assert.Nil(t, initDirectoryProvider())

	cfg.Serper.Key = "k"
	cfg.LocalBiz.Key = "k"
	assert.NotNil(t, initSearchProvider())
	assert.NotNil(t, initDirectoryProvider())
}
