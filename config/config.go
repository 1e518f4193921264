// Package config loads the insight engine's configuration: defaults
// layered with YAML-file and then environment-variable overrides, the
// latter resolved through env struct tags by a reflection loader.
package config

import "time"

// Config is the full configuration surface. Absence of a credential or
// endpoint degrades the matching component to its documented fallback
// rather than failing startup.
type Config struct {
	Server    ServerConfig    `yaml:"server" env:"SERVER"`
	LLM       LLMConfig       `yaml:"llm" env:"LLM"`
	Cache     CacheConfig     `yaml:"cache" env:"CACHE"`
	Warehouse WarehouseConfig `yaml:"warehouse" env:"WAREHOUSE"`
	Metadata  MetadataConfig  `yaml:"metadata" env:"METADATA"`
	Log       LogConfig       `yaml:"log" env:"LOG"`
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`

	// RequestTimeout is the overall cap per Process call.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT_S_DURATION"`
}

// ServerConfig configures the HTTP listener. Routing itself is an external
// collaborator, but the core still owns graceful lifecycle.
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port" env:"HTTP_PORT"`
	MetricsPort     int           `yaml:"metrics_port" env:"METRICS_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LLMConfig configures the LLM Gateway.
type LLMConfig struct {
	// APIKey's absence disables the LLM and forces the fallback path.
	APIKey string `yaml:"api_key" env:"API_KEY"`
	// Model is a deployment choice; the gateway itself is model-agnostic.
	Model string `yaml:"model" env:"MODEL"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	// CostPer1KTokens defaults to 0.002.
	CostPer1KTokens float64 `yaml:"cost_per_1k_tokens" env:"COST_PER_1K_TOKENS"`
	// MinInterval is the per-process inter-request spacing, defaulting to 100ms.
	MinInterval time.Duration `yaml:"min_interval" env:"MIN_INTERVAL"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// CacheConfig configures the Cache Adapter.
type CacheConfig struct {
	// URL's absence disables caching (all operations report as misses).
	URL          string        `yaml:"url" env:"URL"`
	Password     string        `yaml:"password" env:"PASSWORD"`
	DB           int           `yaml:"db" env:"DB"`
	PoolSize     int           `yaml:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"MIN_IDLE_CONNS"`
	DefaultTTL   time.Duration `yaml:"default_ttl" env:"DEFAULT_TTL"`
	Timeout      time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// WarehouseConfig configures the Analytical Store Adapter.
type WarehouseConfig struct {
	// URL's absence forces empty contexts for every query.
	URL             string        `yaml:"url" env:"URL"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	Timeout         time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// MetadataConfig configures the Query Repository.
type MetadataConfig struct {
	// URL's absence forces in-memory Questions.
	URL             string        `yaml:"url" env:"URL"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	Timeout         time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MigrationsPath  string        `yaml:"migrations_path" env:"MIGRATIONS_PATH"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	ServiceName  string  `yaml:"service_name" env:"SERVICE_NAME"`
	SampleRate   float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}
