package config

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the mirror project configuration, loaded from mirror.yml
// or mirror.yaml in the working directory.
type Config struct {
	Generate GenerateConfig `mapstructure:"generate"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

// GenerateConfig controls payload generation.
type GenerateConfig struct {
	Entry   string   `mapstructure:"entry"`
	Extra   []string `mapstructure:"extra"`
	Output  string   `mapstructure:"output"`
	Package string   `mapstructure:"package"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Load loads the configuration from mirror.yml or mirror.yaml. A missing
// config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("generate.entry", ".")
	v.SetDefault("generate.output", "mirrordata/mirror_gen.go")
	v.SetDefault("generate.package", "mirrordata")
	v.SetDefault("watch.debounce_ms", 100)

	v.SetConfigName("mirror")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig checks the loaded values before generation starts.
func validateConfig(c *Config) error {
	if c.Generate.Entry == "" {
		return fmt.Errorf("generate.entry cannot be empty")
	}
	if !strings.HasSuffix(c.Generate.Output, ".go") {
		return fmt.Errorf("generate.output must be a .go file, got %q", c.Generate.Output)
	}
	if !token.IsIdentifier(c.Generate.Package) {
		return fmt.Errorf("generate.package %q is not a valid Go identifier", c.Generate.Package)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms cannot be negative")
	}
	return nil
}

// InProject checks if the current directory is a Go module.
func InProject() bool {
	_, err := os.Stat("go.mod")
	return err == nil
}

// GetProjectRoot finds the enclosing module root by walking up to the
// nearest go.mod.
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not inside a Go module (no go.mod found)")
		}
		dir = parent
	}
}
