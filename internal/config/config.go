// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Enrich EnrichConfig `yaml:"enrich" mapstructure:"enrich"`
	Zip    ZipConfig    `yaml:"zip" mapstructure:"zip"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EnrichConfig configures the parallel enrichment pipeline.
type EnrichConfig struct {
	Shards      int    `yaml:"shards" mapstructure:"shards"`
	Savepath    string `yaml:"savepath" mapstructure:"savepath"`
	ResultLimit int    `yaml:"result_limit" mapstructure:"result_limit"`
	CityColumn  string `yaml:"city_column" mapstructure:"city_column"`
	StateColumn string `yaml:"state_column" mapstructure:"state_column"`
	ZipColumn   string `yaml:"zip_column" mapstructure:"zip_column"`
}

// ZipConfig configures the zip lookup service backend: a local sqlite
// database in the uszipcode layout, or a remote HTTP API.
type ZipConfig struct {
	Driver         string  `yaml:"driver" mapstructure:"driver"`
	DBPath         string  `yaml:"db_path" mapstructure:"db_path"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MLPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("enrich.shards", runtime.NumCPU())
	v.SetDefault("enrich.savepath", "runs")
	v.SetDefault("enrich.city_column", "City")
	v.SetDefault("enrich.state_column", "State")
	v.SetDefault("enrich.zip_column", "Zip")
	v.SetDefault("zip.driver", "sqlite")
	v.SetDefault("zip.db_path", "zipcodes.db")
	v.SetDefault("zip.requests_per_sec", 10)
	v.SetDefault("zip.timeout_secs", 30)

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
