// Package config loads layered docparse configuration.
//
// Precedence, strongest first: CLI flags (applied by the commands as
// provider overrides), the user config file, the project .env file, process
// environment variables, built-in defaults. The merge happens once at
// startup; the pipeline only ever sees the resolved, immutable result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Manager loads and holds the resolved configuration.
type Manager struct {
	v      *viper.Viper
	config *Config
}

// NewManager loads configuration, merging all layers.
// cfgFile, when non-empty, pins the config file location.
func NewManager(cfgFile string) (*Manager, error) {
	// Project .env is loaded into the environment first so ${ENV_VAR}
	// references in the config file can see its values.
	if _, err := os.Stat(".env"); err == nil {
		if err := loadDotEnv(".env"); err != nil {
			return nil, fmt.Errorf("error reading .env file: %w", err)
		}
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("providers", defaults.Providers)
	v.SetDefault("defaults", defaults.Defaults)

	v.SetEnvPrefix("DOCPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.docparse")
	}

	// The config file is optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &Manager{v: v, config: &cfg}, nil
}

// Get returns the resolved configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// ConfigFileUsed returns the path of the config file that was loaded, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// loadDotEnv reads a dotenv-format file and applies its values to the
// process environment. The file wins over pre-existing variables, matching
// the configured precedence order.
func loadDotEnv(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	for _, key := range v.AllKeys() {
		if err := os.Setenv(strings.ToUpper(key), v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# docparse configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export SILICONFLOW_API_KEY=xxx OPENAI_API_KEY=xxx

`)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, append(header, data...), 0o644)
}

// UserConfigPath returns the default per-user config file location.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".docparse", "config.yaml"), nil
}
