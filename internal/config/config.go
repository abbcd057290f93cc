// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Import  ImportConfig
	Session SessionConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// CatalogConfig holds catalog source settings.
type CatalogConfig struct {
	// Path is the local catalog file read at startup and written on
	// publish (default: data/pricebook.json)
	Path string `env:"CATALOG_PATH" default:"data/pricebook.json"`

	// UpstreamURL is the static-hosting base URL the offline cache
	// pulls catalog updates from. Empty disables remote refresh; the
	// local file is then the only source.
	UpstreamURL string `env:"CATALOG_UPSTREAM_URL"`

	// Key is the resource key the catalog is cached under
	// (default: data/pricebook.json)
	Key string `env:"CATALOG_KEY" default:"data/pricebook.json"`
}

// CacheConfig holds offline cache settings.
type CacheConfig struct {
	// Dir is the directory cached resources live in (default: .cache)
	Dir string `env:"CACHE_DIR" default:".cache"`
}

// ImportConfig holds admin import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 20MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"20971520"`
}

// SessionConfig holds estimate session settings.
type SessionConfig struct {
	// TTL is how long an idle estimate session survives (default: 8h)
	TTL time.Duration `env:"SESSION_TTL" default:"8h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
