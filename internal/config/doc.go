// Package config loads, parses and validates application settings from
// environment variables (prefix CATALOG_) and an optional config.yaml.
// Environment variables take precedence over file values.
package config
