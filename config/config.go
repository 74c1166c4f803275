package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the mock generator.
type Config struct {
	Generate GenerateConfig `yaml:"generate"`
	Batch    BatchConfig    `yaml:"batch"`
}

// GenerateConfig holds mock generation configuration.
type GenerateConfig struct {
	Indent        int    `yaml:"indent"`
	Partial       bool   `yaml:"partial"`
	MockPrefix    string `yaml:"mock_prefix"`
	PartialPrefix string `yaml:"partial_prefix"`
}

// BatchConfig holds batch generation configuration.
type BatchConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Output   string   `yaml:"output"`
	Cache    bool     `yaml:"cache"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			Indent:        2,
			Partial:       false,
			MockPrefix:    "Mock",
			PartialPrefix: "PartialMock",
		},
		Batch: BatchConfig{
			Includes: []string{"**/*.h", "**/*.hpp", "**/*.hxx"},
			Excludes: []string{"**/build/**", "**/vendor/**", "**/third_party/**", "**/.git/**"},
			Output:   "mocks",
			Cache:    true,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for gmockgen.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try gmockgen.yaml in the directory
	path := filepath.Join(dir, "gmockgen.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .gmockgen/config.yaml
	path = filepath.Join(dir, ".gmockgen", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the path to the batch generation cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, ".gmockgen", "cache.db")
}

// EnsureStateDir ensures the .gmockgen directory exists.
func EnsureStateDir(dir string) error {
	stateDir := filepath.Join(dir, ".gmockgen")
	return os.MkdirAll(stateDir, 0755)
}
