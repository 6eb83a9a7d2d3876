package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// CATALOG_DATABASE_URL.
const EnvPrefix = "CATALOG"

var keys = []string{
	"server.port",
	"server.log_level",
	"server.log_format",
	"server.shutdown_timeout",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime",
	"catalog.name",
	"catalog.table",
	"catalog.auto_save_changes",
	"telemetry.endpoint",
	"telemetry.service_name",
	"telemetry.environment",
}

type loadOptions struct {
	configFile string
	searchPath string
}

// Option customizes Load.
type Option func(*loadOptions)

// WithConfigFile reads settings from the given file instead of searching
// for config.yaml.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// WithSearchPath changes the directory searched for config.yaml.
func WithSearchPath(dir string) Option {
	return func(o *loadOptions) { o.searchPath = dir }
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates the result.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{searchPath: "."}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	setDefaults(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(o.searchPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || o.configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv alone does not make Unmarshal see keys absent from
	// defaults and files.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("catalog.name", "product")
	v.SetDefault("catalog.table", "products")
	v.SetDefault("catalog.auto_save_changes", true)
	v.SetDefault("telemetry.service_name", "catalog")
	v.SetDefault("telemetry.environment", "development")
}
