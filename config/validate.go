package config

import "fmt"

// Validate checks the cross-field invariants defaults and env overrides
// can't enforce on their own: positive ports, sane timeouts.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be in 1-65535, got %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("server.metrics_port must be in 1-65535, got %d", c.Server.MetricsPort)
	}
	if c.Server.MetricsPort == c.Server.HTTPPort {
		return fmt.Errorf("server.metrics_port must differ from server.http_port")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.LLM.CostPer1KTokens < 0 {
		return fmt.Errorf("llm.cost_per_1k_tokens must be non-negative")
	}
	return nil
}
