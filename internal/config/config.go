package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Twilio     TwilioConfig     `yaml:"twilio" mapstructure:"twilio"`
	Compliance ComplianceConfig `yaml:"compliance" mapstructure:"compliance"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ScrapeConfig configures website fetching and extraction.
type ScrapeConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	Retries     int    `yaml:"retries" mapstructure:"retries"`
	Stub        bool   `yaml:"stub" mapstructure:"stub"`
}

// AnthropicConfig holds Anthropic API settings for lead analysis.
type AnthropicConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	Model           string `yaml:"model" mapstructure:"model"`
	MaxTokens       int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	ScriptMaxTokens int    `yaml:"script_max_tokens" mapstructure:"script_max_tokens"`
}

// TwilioConfig holds outbound-calling provider settings. When Simulate is
// true or credentials are missing, calls run through the deterministic
// simulator instead of the provider.
type TwilioConfig struct {
	AccountSID  string `yaml:"account_sid" mapstructure:"account_sid"`
	AuthToken   string `yaml:"auth_token" mapstructure:"auth_token"`
	FromNumber  string `yaml:"from_number" mapstructure:"from_number"`
	CallbackURL string `yaml:"callback_url" mapstructure:"callback_url"`
	Simulate    bool   `yaml:"simulate" mapstructure:"simulate"`
}

// Configured reports whether real-call credentials are present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// ComplianceConfig configures the pre-call compliance gate.
type ComplianceConfig struct {
	DNCFile   string `yaml:"dnc_file" mapstructure:"dnc_file"`
	OpenHour  int    `yaml:"open_hour" mapstructure:"open_hour"`
	CloseHour int    `yaml:"close_hour" mapstructure:"close_hour"`
}

// BatchConfig configures concurrent batch processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// NotionConfig holds Notion API credentials and the facility queue database.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	FacilityDB string `yaml:"facility_db" mapstructure:"facility_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings for lead export.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// ExportConfig configures lead export targets.
type ExportConfig struct {
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "outreach.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("scrape.retries", 2)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1500)
	v.SetDefault("anthropic.script_max_tokens", 500)
	v.SetDefault("twilio.simulate", false)
	v.SetDefault("compliance.open_hour", 8)
	v.SetDefault("compliance.close_hour", 20)
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("export.xlsx_path", "leads.xlsx")

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

// Validate checks the configuration for a given run mode. Modes map to
// command entry points: "serve", "batch", "call", "export".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 50 {
		problems = append(problems, "batch.max_concurrent must be between 1 and 50")
	}
	if c.Compliance.OpenHour < 0 || c.Compliance.OpenHour > 23 ||
		c.Compliance.CloseHour < 0 || c.Compliance.CloseHour > 23 ||
		c.Compliance.OpenHour > c.Compliance.CloseHour {
		problems = append(problems, "compliance hours must satisfy 0 <= open_hour <= close_hour <= 23")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0")
		}
	case "batch":
		if c.Notion.Token != "" && c.Notion.FacilityDB == "" {
			problems = append(problems, "notion.facility_db is required when notion.token is set")
		}
	case "call":
		if !c.Twilio.Simulate && c.Twilio.Configured() && c.Twilio.CallbackURL == "" {
			problems = append(problems, "twilio.callback_url is required for real calls")
		}
	case "export":
		if c.Export.XLSXPath == "" && c.Salesforce.ClientID == "" {
			problems = append(problems, "export requires export.xlsx_path or salesforce credentials")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
