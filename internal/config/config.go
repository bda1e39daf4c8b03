// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"modelselector/internal/models"
	"modelselector/internal/observability"
)

// AppName names the config and data directories.
const AppName = "modelselector"

type EndpointsConfig struct {
	Gemini  string `yaml:"gemini"`
	Mistral string `yaml:"mistral"`
	Llama   string `yaml:"llama"`
}

type Config struct {
	DefaultModel models.ModelID  `yaml:"default_model"`
	Endpoints    EndpointsConfig `yaml:"endpoints"`
	Request      struct {
		Timeout int `yaml:"timeout"` // seconds
	} `yaml:"request"`
	Diagnostics struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path,omitempty"`
	} `yaml:"diagnostics"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"logging"`
}

// Load reads .env (if present) and then the default config file.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads .env (if present) and the YAML file at path. A missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	// .env is optional; values already in the environment win
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables in config
	expanded := os.ExpandEnv(string(data))

	cfg := defaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.DefaultModel = models.Gemini
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	defaults := models.DefaultEndpoints()
	if cfg.Endpoints.Gemini == "" {
		cfg.Endpoints.Gemini = defaults[models.Gemini]
	}
	if cfg.Endpoints.Mistral == "" {
		cfg.Endpoints.Mistral = defaults[models.Mistral]
	}
	if cfg.Endpoints.Llama == "" {
		cfg.Endpoints.Llama = defaults[models.Llama]
	}
	if cfg.Request.Timeout == 0 {
		cfg.Request.Timeout = int(models.DefaultTimeout / time.Second)
	}
	if cfg.Diagnostics.Enabled == nil {
		enabled := true
		cfg.Diagnostics.Enabled = &enabled
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks the default model, the endpoint table and the log level.
func (c *Config) Validate() error {
	if !c.DefaultModel.Valid() {
		return &models.ConfigurationError{ID: c.DefaultModel, Reason: "unknown default model"}
	}
	if _, err := models.NewResolver(c.EndpointMap()); err != nil {
		return err
	}
	if c.Request.Timeout < 0 {
		return fmt.Errorf("request.timeout must be positive, got %d", c.Request.Timeout)
	}
	if _, err := observability.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// EndpointMap returns the endpoint table keyed by model.
func (c *Config) EndpointMap() map[models.ModelID]string {
	return map[models.ModelID]string{
		models.Gemini:  c.Endpoints.Gemini,
		models.Mistral: c.Endpoints.Mistral,
		models.Llama:   c.Endpoints.Llama,
	}
}

// RequestTimeout is the per-submission deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Request.Timeout) * time.Second
}

// DiagnosticsEnabled reports whether outcomes are journaled.
func (c *Config) DiagnosticsEnabled() bool {
	return c.Diagnostics.Enabled == nil || *c.Diagnostics.Enabled
}

// DiagnosticsPath is the SQLite file for submission outcomes.
func (c *Config) DiagnosticsPath() string {
	if c.Diagnostics.Path != "" {
		return c.Diagnostics.Path
	}
	return filepath.Join(DataDir(), "diagnostics.db")
}

// LogPath is the JSON log file.
func (c *Config) LogPath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(DataDir(), AppName+".log")
}

func ConfigPath() string {
	configDir, _ := os.UserConfigDir()
	if configDir == "" {
		configDir = os.ExpandEnv("$HOME/.config")
	}
	return filepath.Join(configDir, AppName, "config.yaml")
}

// DataDir follows XDG_DATA_HOME, defaulting to ~/.local/share.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}
