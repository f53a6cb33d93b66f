// Package config loads pipeline configuration from the environment (via
// viper) and, when VAULT_ADDR is set, from a Vault KV v2 secret path that
// overrides individual fields.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every environment-driven setting the pipeline reads at
// startup. Fields are read-only after process start.
type Config struct {
	DatabaseURL             string
	NATSURL                 string
	AnthropicAPIKey         string
	AggregatorHost          string
	PipelineWorkers         int
	PipelineIntervalMinutes int
	LogLevel                string
	MinYear                 int
	VaultAddr               string
	VaultToken              string
	VaultSecretPath         string
	OTLPEndpoint            string
}

// Load populates a Config from the environment, applying the documented
// defaults: PIPELINE_WORKERS=10, PIPELINE_INTERVAL_MINUTES=30,
// LOG_LEVEL=INFO.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("PIPELINE_WORKERS", 10)
	v.SetDefault("PIPELINE_INTERVAL_MINUTES", 30)
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("MIN_YEAR", 2000)

	cfg := &Config{
		DatabaseURL:             v.GetString("DATABASE_URL"),
		NATSURL:                 v.GetString("NATS_URL"),
		AnthropicAPIKey:         v.GetString("ANTHROPIC_API_KEY"),
		AggregatorHost:          v.GetString("AGGREGATOR_HOST"),
		PipelineWorkers:         v.GetInt("PIPELINE_WORKERS"),
		PipelineIntervalMinutes: v.GetInt("PIPELINE_INTERVAL_MINUTES"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		MinYear:                 v.GetInt("MIN_YEAR"),
		VaultAddr:               v.GetString("VAULT_ADDR"),
		VaultToken:              v.GetString("VAULT_TOKEN"),
		VaultSecretPath:         v.GetString("VAULT_SECRET_PATH"),
		OTLPEndpoint:            v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.VaultAddr != "" {
		if err := cfg.loadFromVault(); err != nil {
			return nil, fmt.Errorf("config: vault override: %w", err)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	return cfg, nil
}

// loadFromVault overrides DatabaseURL and AnthropicAPIKey with values read
// from a Vault KV v2 secret, for deployments where secrets live in Vault
// rather than plain env vars. A missing key in the secret leaves the
// env-sourced value untouched.
func (c *Config) loadFromVault() error {
	sm, err := NewSecretManager(c.VaultAddr, c.VaultToken)
	if err != nil {
		return err
	}
	path := c.VaultSecretPath
	if path == "" {
		path = "secret/data/archiveviolencia/pipeline"
	}
	data, err := sm.GetKV2(path)
	if err != nil {
		return err
	}
	if v, ok := data["PG_URL"].(string); ok && v != "" {
		c.DatabaseURL = v
	}
	if v, ok := data["ANTHROPIC_API_KEY"].(string); ok && v != "" {
		c.AnthropicAPIKey = v
	}
	return nil
}
