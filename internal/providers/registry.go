package providers

import (
	"fmt"
	"sort"
	"time"
)

// Overrides carries CLI-level settings layered on top of a provider's
// configured defaults. Zero values mean "not set".
type Overrides struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Registry maps provider identifiers to their configured defaults and knows
// how to construct the matching client.
type Registry struct {
	configs map[string]Config
}

// DefaultConfigs returns the built-in configuration for the registered
// provider set.
func DefaultConfigs() map[string]Config {
	return map[string]Config{
		SiliconFlowName: {
			ID:        SiliconFlowName,
			Type:      SiliconFlowName,
			Model:     SiliconFlowModel,
			BaseURL:   SiliconFlowBaseURL,
			RateLimit: 6.0,
		},
		OpenAIName: {
			ID:        OpenAIName,
			Type:      OpenAIName,
			Model:     OpenAIModel,
			BaseURL:   OpenAIBaseURL,
			RateLimit: 10.0,
		},
	}
}

// NewRegistry creates a registry from per-provider configs.
// Nil configs falls back to the built-in defaults.
func NewRegistry(configs map[string]Config) *Registry {
	if configs == nil {
		configs = DefaultConfigs()
	}
	return &Registry{configs: configs}
}

// IDs returns the registered provider identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns the configured defaults for a provider without validation.
func (r *Registry) Get(id string) (Config, bool) {
	cfg, ok := r.configs[id]
	return cfg, ok
}

// Resolve merges a provider's configured defaults with CLI overrides and
// validates the result. A missing API key is a configuration error: it is
// reported here, before any network call or batch work begins.
func (r *Registry) Resolve(id string, ov Overrides) (Config, error) {
	cfg, ok := r.configs[id]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownProvider, id, r.IDs())
	}

	if ov.APIKey != "" {
		cfg.APIKey = ov.APIKey
	}
	if ov.Model != "" {
		cfg.Model = ov.Model
	}
	if ov.BaseURL != "" {
		cfg.BaseURL = ov.BaseURL
	}
	if ov.Timeout != 0 {
		cfg.Timeout = ov.Timeout
	}

	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("no API key configured for provider %q", id)
	}

	return cfg, nil
}

// New constructs the client for a resolved config.
func New(cfg Config) (Provider, error) {
	switch cfg.Type {
	case SiliconFlowName:
		return NewSiliconFlowClient(cfg), nil
	case OpenAIName:
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownProvider, cfg.Type)
	}
}
