package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/acquire"
	"github.com/sells-group/leadgen/internal/api"
	"github.com/sells-group/leadgen/internal/config"
	"github.com/sells-group/leadgen/internal/db"
	"github.com/sells-group/leadgen/internal/extract"
	"github.com/sells-group/leadgen/internal/pipeline"
	"github.com/sells-group/leadgen/internal/store"
	anthropicpkg "github.com/sells-group/leadgen/pkg/anthropic"
	"github.com/sells-group/leadgen/pkg/gemini"
	"github.com/sells-group/leadgen/pkg/localbiz"
	"github.com/sells-group/leadgen/pkg/serper"
)

// pipelineEnv holds the initialized store, pipeline and optional chat model
// needed by the search and serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Chat     api.Chatter // nil when no model backend is configured
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// chatModel is a model backend that also answers free-text prompts.
type chatModel interface {
	extract.Model
	api.Chatter
}

// initPipeline validates config for mode, opens and migrates the store, and
// builds the pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	m, err := initModel(ctx, cfg.Extract.Strategy == config.StrategyModel)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var extractModel extract.Model
	var chat api.Chatter
	if m != nil {
		extractModel = m
		chat = m
	}

	ex, err := extract.New(cfg.Extract, extractModel)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	acq := acquire.New(initSearchProvider(), initDirectoryProvider(), acquire.Options{
		Language:       cfg.Serper.Language,
		Country:        cfg.Serper.Country,
		Zoom:           cfg.Serper.Zoom,
		DirLanguage:    cfg.LocalBiz.Language,
		DirRegion:      cfg.LocalBiz.Region,
		DirLimit:       cfg.LocalBiz.Limit,
		RequestTimeout: cfg.Acquire.Timeout(),
	})

	zap.L().Info("pipeline initialized",
		zap.String("store", cfg.Store.Driver),
		zap.String("extractor", ex.Name()),
		zap.Bool("chat", chat != nil),
	)

	return &pipelineEnv{
		Store:    st,
		Pipeline: pipeline.New(acq, ex, st),
		Chat:     chat,
	}, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leadgen.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, db.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	case "none":
		zap.L().Warn("store driver is none, leads will not be persisted")
		return store.Noop{}, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initModel builds the configured model backend. Without a key it returns
// nil, unless required is set.
func initModel(ctx context.Context, required bool) (chatModel, error) {
	switch cfg.Extract.Backend {
	case config.BackendGemini:
		if cfg.Gemini.Key == "" {
			return nil, missingKey(required, "gemini.key")
		}
		client, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.Gemini.Key, BaseURL: cfg.Gemini.BaseURL})
		if err != nil {
			return nil, err
		}
		return extract.NewGeminiModel(client, cfg.Gemini.Model, cfg.Gemini.MaxTokens), nil
	case config.BackendAnthropic, "":
		if cfg.Anthropic.Key == "" {
			return nil, missingKey(required, "anthropic.key")
		}
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		return extract.NewAnthropicModel(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens), nil
	default:
		return nil, eris.Errorf("unsupported model backend: %s", cfg.Extract.Backend)
	}
}

func missingKey(required bool, key string) error {
	if required {
		return eris.Errorf("%s is required for the model strategy", key)
	}
	return nil
}

// initSearchProvider returns nil when no key is set; the acquirer then
// records the provider as disabled.
func initSearchProvider() serper.Client {
	if cfg.Serper.Key == "" {
		zap.L().Warn("serper.key not set, search provider disabled")
		return nil
	}
	return serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
}

func initDirectoryProvider() localbiz.Client {
	if cfg.LocalBiz.Key == "" {
		zap.L().Warn("localbiz.key not set, directory provider disabled")
		return nil
	}
	return localbiz.NewClient(cfg.LocalBiz.Key,
		localbiz.WithBaseURL(cfg.LocalBiz.BaseURL),
		localbiz.WithHost(cfg.LocalBiz.Host),
	)
}
