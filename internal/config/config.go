package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Extraction strategies.
const (
	StrategyFieldMap = "fieldmap"
	StrategyModel    = "model"
)

// Model backends for the model-assisted strategy.
const (
	BackendAnthropic = "anthropic"
	BackendGemini    = "gemini"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	LocalBiz  LocalBizConfig  `yaml:"localbiz" mapstructure:"localbiz"`
	Acquire   AcquireConfig   `yaml:"acquire" mapstructure:"acquire"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend. Driver "none" disables
// persistence: writes report zero stored leads.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// SerperConfig holds Serper maps search settings.
type SerperConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Language string `yaml:"language" mapstructure:"language"`
	Country  string `yaml:"country" mapstructure:"country"`
	Zoom     int    `yaml:"zoom" mapstructure:"zoom"`
}

// LocalBizConfig holds Local Business Data (RapidAPI) settings.
type LocalBizConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	Host     string `yaml:"host" mapstructure:"host"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Language string `yaml:"language" mapstructure:"language"`
	Region   string `yaml:"region" mapstructure:"region"`
	Limit    int    `yaml:"limit" mapstructure:"limit"`
}

// AcquireConfig bounds the outbound provider calls.
type AcquireConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-request timeout.
func (a AcquireConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// ExtractConfig selects the extraction strategy.
type ExtractConfig struct {
	Strategy    string  `yaml:"strategy" mapstructure:"strategy"`
	Backend     string  `yaml:"backend" mapstructure:"backend"`
	MaxRadiusKM float64 `yaml:"max_radius_km" mapstructure:"max_radius_km"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the bound on one model call.
func (e ExtractConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens int32  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("serper.key", "")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.language", "pt")
	v.SetDefault("serper.country", "br")
	v.SetDefault("serper.zoom", 14)
	v.SetDefault("localbiz.key", "")
	v.SetDefault("localbiz.host", "local-business-data.p.rapidapi.com")
	v.SetDefault("localbiz.base_url", "https://local-business-data.p.rapidapi.com")
	v.SetDefault("localbiz.language", "pt")
	v.SetDefault("localbiz.region", "br")
	v.SetDefault("localbiz.limit", 20)
	v.SetDefault("acquire.timeout_secs", 30)
	v.SetDefault("extract.strategy", StrategyFieldMap)
	v.SetDefault("extract.backend", BackendAnthropic)
	v.SetDefault("extract.max_radius_km", 50)
	v.SetDefault("extract.timeout_secs", 120)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.max_tokens", 4096)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Modes: "pipeline" (search and
// serve), "serve" (pipeline plus server settings), "store" (database only).
// Missing provider keys are not errors: an unconfigured provider degrades to
// an empty result.
func (c *Config) Validate(mode string) error {
	var errs []string

	validateStore := func() {
		switch c.Store.Driver {
		case "none":
		case "sqlite":
		case "postgres":
			if c.Store.DatabaseURL == "" {
				errs = append(errs, "store.database_url is required for the postgres driver")
			}
		default:
			errs = append(errs, fmt.Sprintf("store.driver %q is not supported (postgres, sqlite, none)", c.Store.Driver))
		}
	}

	validatePipeline := func() {
		if c.Acquire.TimeoutSecs <= 0 {
			errs = append(errs, "acquire.timeout_secs must be positive")
		}
		switch c.Extract.Strategy {
		case StrategyFieldMap:
		case StrategyModel:
			switch c.Extract.Backend {
			case BackendAnthropic:
				if c.Anthropic.Key == "" {
					errs = append(errs, "anthropic.key is required for the model strategy")
				}
			case BackendGemini:
				if c.Gemini.Key == "" {
					errs = append(errs, "gemini.key is required for the model strategy")
				}
			default:
				errs = append(errs, fmt.Sprintf("extract.backend %q is not supported (anthropic, gemini)", c.Extract.Backend))
			}
		default:
			errs = append(errs, fmt.Sprintf("extract.strategy %q is not supported (fieldmap, model)", c.Extract.Strategy))
		}
	}

	switch mode {
	case "pipeline":
		validateStore()
		validatePipeline()
	case "serve":
		validateStore()
		validatePipeline()
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
		}
	case "store":
		validateStore()
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
