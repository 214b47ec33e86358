package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no --config flag is given.
const DefaultPath = "chomsky.yaml"

// Config is the structure of chomsky.yaml.
type Config struct {
	MaxLength   int    `yaml:"max_length" json:"max_length"`
	MaxWords    int    `yaml:"max_words" json:"max_words"`
	GrammarsDir string `yaml:"grammars_dir" json:"grammars_dir"`
	Limits      Limits `yaml:"limits" json:"limits"`
	HTTP        HTTP   `yaml:"http" json:"http"`
	Redis       Redis  `yaml:"redis" json:"redis"`
}

// Limits caps the bounds a client of the HTTP API or the MCP server may ask for.
type Limits struct {
	MaxLength int `yaml:"max_length" json:"max_length"`
	MaxWords  int `yaml:"max_words" json:"max_words"`
}

// HTTP configures the serve command.
type HTTP struct {
	Port int `yaml:"port" json:"port"`
}

// Redis configures the conversion store. An empty Addr selects the in-memory store.
type Redis struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	TTL      string `yaml:"ttl" json:"ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		MaxLength:   4,
		MaxWords:    10,
		GrammarsDir: "grammars",
		Limits:      Limits{MaxLength: 10, MaxWords: 50},
		HTTP:        HTTP{Port: 8080},
		Redis:       Redis{Prefix: "chomsky:conversion:"},
	}
}

// TTLDuration parses Redis.TTL. An empty value means no expiration.
func (r Redis) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl %q: %w", r.TTL, err)
	}
	return d, nil
}

// Load reads a configuration file (YAML or JSON) over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects bounds the enumerator would refuse and defaults above the limits.
func (c Config) Validate() error {
	if c.MaxLength <= 0 {
		return fmt.Errorf("max_length must be positive, got %d", c.MaxLength)
	}
	if c.MaxWords <= 0 {
		return fmt.Errorf("max_words must be positive, got %d", c.MaxWords)
	}
	if c.MaxLength > c.Limits.MaxLength {
		return fmt.Errorf("max_length %d exceeds limits.max_length %d", c.MaxLength, c.Limits.MaxLength)
	}
	if c.MaxWords > c.Limits.MaxWords {
		return fmt.Errorf("max_words %d exceeds limits.max_words %d", c.MaxWords, c.Limits.MaxWords)
	}
	if _, err := c.Redis.TTLDuration(); err != nil {
		return err
	}
	return nil
}
