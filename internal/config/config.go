package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// NavigationConfig enables navigation-tree injection under the given
// metadata key.
type NavigationConfig struct {
	Key string `yaml:"key"`
}

// Config is the build configuration.
type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Debug disables minification and live-reload injection.
	Debug bool `yaml:"debug"`

	// Taxonomies is the ordered set of metadata keys to index.
	Taxonomies []string `yaml:"taxonomies"`

	Navigation *NavigationConfig `yaml:"navigation"`

	// DefaultLang is the language assumed for pages without a language
	// suffix in their file name.
	DefaultLang string `yaml:"default_lang"`

	// Ignore is a set of path glob patterns skipped during discovery.
	Ignore []string `yaml:"ignore"`

	// ChannelCapacity bounds every inter-stage queue.
	ChannelCapacity int `yaml:"channel_capacity"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		InputDir:        ".",
		OutputDir:       "_site",
		ChannelCapacity: 64,
	}
}

// Load reads the YAML configuration at path, overlays a .env file when one
// exists next to the working directory, then applies VITRINE_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	// Overlay only; existing environment wins.
	_ = godotenv.Load()

	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults + environment.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides configuration fields from VITRINE_* variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("VITRINE_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("VITRINE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("VITRINE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv("VITRINE_DEFAULT_LANG"); v != "" {
		cfg.DefaultLang = v
	}
	if v := os.Getenv("VITRINE_TAXONOMIES"); v != "" {
		cfg.Taxonomies = splitList(v)
	}
	if v := os.Getenv("VITRINE_IGNORE"); v != "" {
		cfg.Ignore = splitList(v)
	}
	if v := os.Getenv("VITRINE_CHANNEL_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChannelCapacity = n
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("config: input_dir must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output_dir must not be empty")
	}
	if c.ChannelCapacity < 1 {
		c.ChannelCapacity = Default().ChannelCapacity
	}
	if c.Navigation != nil && c.Navigation.Key == "" {
		return fmt.Errorf("config: navigation.key must not be empty when navigation is set")
	}
	seen := make(map[string]bool, len(c.Taxonomies))
	for _, key := range c.Taxonomies {
		if key == "" {
			return fmt.Errorf("config: taxonomy keys must not be empty")
		}
		if seen[key] {
			return fmt.Errorf("config: duplicate taxonomy key %q", key)
		}
		seen[key] = true
	}
	return nil
}

// NavigationKey returns the configured navigation metadata key, or "".
func (c *Config) NavigationKey() string {
	if c.Navigation == nil {
		return ""
	}
	return c.Navigation.Key
}
