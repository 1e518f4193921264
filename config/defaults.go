package config

import "time"

// DefaultConfig returns the engine's baseline configuration, with every
// timeout, TTL, and cap set to a documented default.
func DefaultConfig() *Config {
	return &Config{
		Server:         DefaultServerConfig(),
		LLM:            DefaultLLMConfig(),
		Cache:          DefaultCacheConfig(),
		Warehouse:      DefaultWarehouseConfig(),
		Metadata:       DefaultMetadataConfig(),
		Log:            DefaultLogConfig(),
		Telemetry:      DefaultTelemetryConfig(),
		RequestTimeout: 60 * time.Second,
	}
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9090,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:           "configured-model",
		CostPer1KTokens: 0.002,
		MinInterval:     100 * time.Millisecond,
		Timeout:         30 * time.Second,
	}
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DefaultTTL:   3600 * time.Second,
		Timeout:      100 * time.Millisecond,
	}
}

func DefaultWarehouseConfig() WarehouseConfig {
	return WarehouseConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		Timeout:         10 * time.Second,
	}
}

func DefaultMetadataConfig() MetadataConfig {
	return MetadataConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		Timeout:         2 * time.Second,
		MigrationsPath:  "migrations",
	}
}

func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: "json"}
}

func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:     false,
		ServiceName: "insight-engine",
		SampleRate:  0.1,
	}
}

// Namespaced TTLs for Cache Adapter keys
const (
	QueryCacheTTL    = 1800 * time.Second
	DataCacheTTL     = 900 * time.Second
	InsightsCacheTTL = 7200 * time.Second
	IntentCacheTTL   = 2 * time.Hour
)
