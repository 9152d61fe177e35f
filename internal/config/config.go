// Package config loads the explorer's settings from environment variables,
// applies defaults and validates everything on startup.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Datasets DatasetConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Chart    ChartConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight ingests.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is applied by the router middleware.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds the optional PostgreSQL source.
type DatabaseConfig struct {
	// URL enables table-backed datasets when set.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Tables lists the tables (optionally schema-qualified) loaded as
	// datasets at startup.
	Tables []string `env:"DATASET_SQL_TABLES"`

	MaxConns       int           `env:"DB_MAX_CONNS" default:"4"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// DatasetConfig holds built-in dataset and ingestion settings.
type DatasetConfig struct {
	// Dir holds one sub-folder per built-in dataset.
	Dir string `env:"DATASET_DIR" default:"datasets"`

	// Default is the built-in dataset activated at startup, if present.
	Default string `env:"DATASET_DEFAULT" default:"daylight-factor"`

	MaxFileSize   int64         `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
	MaxConcurrent int           `env:"UPLOAD_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
	Timeout       time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`
}

// RateLimitConfig holds per-IP request limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"600"`
	UploadLimit       int  `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ChartConfig holds the initial view settings of a session.
type ChartConfig struct {
	// Width is the chart width used until the client reports its own.
	Width    float64 `env:"CHART_WIDTH" default:"1200"`
	PageSize int     `env:"TABLE_PAGE_SIZE" default:"50"`
	Palette  string  `env:"PALETTE" default:"originalLadybug"`

	// CustomPalette is a comma-separated list of hex stops registered as
	// the "custom" palette.
	CustomPalette []string `env:"PALETTE_CUSTOM"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
