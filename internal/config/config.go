// Package config provides configuration loading and structs for the yosoku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Inference InferenceConfig `yaml:"inference"`
	Apps      AppsConfig      `yaml:"apps"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LogConfig holds optional log file settings. An empty File logs to stderr only.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// InferenceConfig holds adapter settings shared by both apps.
type InferenceConfig struct {
	// CacheSize is the number of memoized predictions per app; 0 disables the cache.
	CacheSize *int `yaml:"cache_size"`
}

// CacheSizeOrDefault returns the configured cache size, or 1024 when unset.
func (i *InferenceConfig) CacheSizeOrDefault() int {
	if i.CacheSize != nil {
		return *i.CacheSize
	}
	return 1024
}

// AppsConfig holds the two prediction apps.
type AppsConfig struct {
	ExamScore   ExamScoreConfig   `yaml:"exam_score"`
	Personality PersonalityConfig `yaml:"personality"`
}

// ExamScoreConfig configures the exam score regressor app.
type ExamScoreConfig struct {
	Enabled *bool          `yaml:"enabled"`
	Model   ArtifactConfig `yaml:"model"`
}

// EnabledOrDefault returns whether the app is served; defaults to true when unset.
func (a *ExamScoreConfig) EnabledOrDefault() bool {
	if a.Enabled != nil {
		return *a.Enabled
	}
	return true
}

// PersonalityConfig configures the personality classifier app and its scaler.
type PersonalityConfig struct {
	Enabled *bool          `yaml:"enabled"`
	Model   ArtifactConfig `yaml:"model"`
	Scaler  ArtifactConfig `yaml:"scaler"`
}

// EnabledOrDefault returns whether the app is served; defaults to true when unset.
func (a *PersonalityConfig) EnabledOrDefault() bool {
	if a.Enabled != nil {
		return *a.Enabled
	}
	return true
}

// ArtifactConfig locates one serialized artifact.
type ArtifactConfig struct {
	// Format is one of auto, xgboost, logreg, onnx, scaler.
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
	// ONNX tensor names; ignored by the JSON formats.
	InputName   string   `yaml:"input_name,omitempty"`
	OutputNames []string `yaml:"output_names,omitempty"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Apps.ExamScore.Model.Path = expandPath(cfg.Apps.ExamScore.Model.Path, configDir)
	cfg.Apps.Personality.Model.Path = expandPath(cfg.Apps.Personality.Model.Path, configDir)
	cfg.Apps.Personality.Scaler.Path = expandPath(cfg.Apps.Personality.Scaler.Path, configDir)
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
