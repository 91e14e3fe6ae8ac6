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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Import  ImportConfig  `yaml:"import" mapstructure:"import"`
	Cadence CadenceConfig `yaml:"cadence" mapstructure:"cadence"`
	Notify  NotifyConfig  `yaml:"notify" mapstructure:"notify"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the import/status HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// ImportConfig configures spreadsheet ingestion.
type ImportConfig struct {
	// DefaultAgent receives imported leads when the sheet has no agent
	// column and no acting agent is supplied.
	DefaultAgent string `yaml:"default_agent" mapstructure:"default_agent"`
}

// CadenceConfig configures outreach cadences.
type CadenceConfig struct {
	// TemplatesPath points at a YAML template file; empty uses built-ins.
	TemplatesPath string `yaml:"templates_path" mapstructure:"templates_path"`
	// AdvanceCron is a 5-field cron expression for the daily cadence
	// day-advance loop in serve mode.
	AdvanceCron string `yaml:"advance_cron" mapstructure:"advance_cron"`
}

// NotifyConfig configures the outbound event webhook. An empty URL routes
// events to the log instead.
type NotifyConfig struct {
	WebhookURL string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst      int     `yaml:"burst" mapstructure:"burst"`
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
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leads.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("import.default_agent", "")
	v.SetDefault("cadence.templates_path", "")
	v.SetDefault("cadence.advance_cron", "0 6 * * *")
	v.SetDefault("notify.rate_per_sec", 5)
	v.SetDefault("notify.burst", 10)
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

// Validate checks that the configuration required by the given run mode is
// present. Mode is one of "import", "serve", or "cadence".
func (c *Config) Validate(mode string) error {
	var missing []string

	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		missing = append(missing, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url is required")
	}

	switch mode {
	case "import", "cadence":
	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
		if c.Cadence.AdvanceCron == "" {
			missing = append(missing, "cadence.advance_cron is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Notify.WebhookURL != "" {
		if c.Notify.RatePerSec <= 0 {
			missing = append(missing, "notify.rate_per_sec must be > 0")
		}
		if c.Notify.Burst <= 0 {
			missing = append(missing, "notify.burst must be > 0")
		}
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
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
