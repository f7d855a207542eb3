package config

import (
	"time"

	"github.com/docparse/docparse/internal/batch"
	"github.com/docparse/docparse/internal/providers"
)

// Config holds docparse configuration.
// Loaded from config.yaml (./config.yaml or ~/.docparse/config.yaml).
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
}

// ProviderCfg configures one OCR provider.
type ProviderCfg struct {
	Type           string  `mapstructure:"type" yaml:"type"`                       // "siliconflow", "openai"
	Model          string  `mapstructure:"model" yaml:"model"`                     // model name
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`                 // supports ${ENV_VAR} syntax
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`               // OpenAI-compatible endpoints
	RateLimit      float64 `mapstructure:"rate_limit" yaml:"rate_limit"`           // requests per second
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // 0 = unbounded
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries"`         // extra attempts per page
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// DefaultsCfg specifies run-level defaults.
type DefaultsCfg struct {
	Provider   string `mapstructure:"provider" yaml:"provider"`       // default provider id
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`   // artifact directory
	MaxWorkers int    `mapstructure:"max_workers" yaml:"max_workers"` // concurrent OCR requests
	Prompt     string `mapstructure:"prompt" yaml:"prompt"`           // custom OCR prompt ("" = provider default)
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			providers.SiliconFlowName: {
				Type:      providers.SiliconFlowName,
				Model:     providers.SiliconFlowModel,
				APIKey:    "${SILICONFLOW_API_KEY}",
				BaseURL:   providers.SiliconFlowBaseURL,
				RateLimit: 6.0,
			},
			providers.OpenAIName: {
				Type:      providers.OpenAIName,
				Model:     providers.OpenAIModel,
				APIKey:    "${OPENAI_API_KEY}",
				BaseURL:   providers.OpenAIBaseURL,
				RateLimit: 10.0,
			},
		},
		Defaults: DefaultsCfg{
			Provider:   providers.SiliconFlowName,
			OutputDir:  "output",
			MaxWorkers: batch.DefaultMaxWorkers,
		},
	}
}

// ToProviderConfigs converts the config into resolved provider tuples for the
// registry, expanding ${ENV_VAR} references in API keys.
func (c *Config) ToProviderConfigs() map[string]providers.Config {
	configs := make(map[string]providers.Config, len(c.Providers))
	for id, p := range c.Providers {
		configs[id] = providers.Config{
			ID:          id,
			Type:        p.Type,
			APIKey:      ResolveEnvVars(p.APIKey),
			Model:       p.Model,
			BaseURL:     p.BaseURL,
			Timeout:     time.Duration(p.TimeoutSeconds) * time.Second,
			MaxRetries:  p.MaxRetries,
			RateLimit:   p.RateLimit,
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
		}
	}
	return configs
}
