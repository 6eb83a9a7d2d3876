package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Catalog   CatalogConfig   `mapstructure:"catalog"   validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format"       validate:"omitempty,oneof=json text"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains the connection pool settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// CatalogConfig controls how the product catalog is registered.
type CatalogConfig struct {
	// Name prefixes the container keys of the catalog's store and service.
	Name string `mapstructure:"name" validate:"required,alphanum"`
	// Table is the products table the SQL store maps to.
	Table string `mapstructure:"table" validate:"required"`
	// AutoSaveChanges makes every store mutation commit immediately.
	AutoSaveChanges bool `mapstructure:"auto_save_changes"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	// Endpoint is the OTLP/gRPC collector address; empty disables export.
	Endpoint    string `mapstructure:"endpoint"     validate:"omitempty,hostname_port"`
	ServiceName string `mapstructure:"service_name" validate:"required"`
	Environment string `mapstructure:"environment"`
}
