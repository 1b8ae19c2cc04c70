// Package config loads tmplgen's optional YAML configuration file and
// merges it with the environment.
//
// Precedence, highest first: command-line flags (applied by the CLI),
// environment variables, the config file, built-in defaults.
//
// Example $XDG_CONFIG_HOME/tmplgen/config.yaml:
//
//	distdir: ~/void-packages
//	maintainer: Jane Doe <jane@example.org>
//	cache:
//	  ttl: 24h
//	  redis_url: redis://localhost:6379/0
//	checksum:
//	  attempts: 5
//	  delay: 2s
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tmplgen/pkg/errors"
	"github.com/matzehuels/tmplgen/pkg/httputil"
)

// Config is the merged configuration.
type Config struct {
	DistDir    string         `yaml:"distdir"`
	Maintainer string         `yaml:"maintainer"`
	Cache      CacheConfig    `yaml:"cache"`
	Checksum   ChecksumConfig `yaml:"checksum"`
}

// CacheConfig controls registry response caching.
type CacheConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	RedisURL string        `yaml:"redis_url"`
}

// ChecksumConfig controls distfile download retries.
type ChecksumConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

const (
	// DefaultDistDir is where xtools' xdistdir looks when XBPS_DISTDIR is unset.
	DefaultDistDir = "~/void-packages"

	// DefaultCacheTTL is how long registry responses are reused.
	DefaultCacheTTL = 24 * time.Hour
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DistDir: DefaultDistDir,
		Cache:   CacheConfig{TTL: DefaultCacheTTL},
		Checksum: ChecksumConfig{
			Attempts: httputil.DefaultAttempts,
			Delay:    httputil.DefaultDelay,
		},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/tmplgen/config.yaml (or ~/.config/tmplgen/config.yaml).
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tmplgen", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tmplgen", "config.yaml")
}

// Load reads the config file at path on top of the defaults and then applies
// the environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		default:
			var file Config
			if err := yaml.Unmarshal(data, &file); err != nil {
				return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
			}
			cfg.merge(file)
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment (XBPS_DISTDIR).
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("XBPS_DISTDIR"); v != "" {
		c.DistDir = v
	}
}

// Validate rejects values that can't work.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DistDir) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "distdir must not be empty")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Checksum.Attempts < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "checksum.attempts must not be negative, got %d", c.Checksum.Attempts)
	}
	if c.Cache.RedisURL != "" && !strings.HasPrefix(c.Cache.RedisURL, "redis://") && !strings.HasPrefix(c.Cache.RedisURL, "rediss://") {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url must be a redis:// or rediss:// URL")
	}
	return nil
}

// merge copies every non-zero field of file into c.
func (c *Config) merge(file Config) {
	if file.DistDir != "" {
		c.DistDir = file.DistDir
	}
	if file.Maintainer != "" {
		c.Maintainer = file.Maintainer
	}
	if file.Cache.TTL != 0 {
		c.Cache.TTL = file.Cache.TTL
	}
	if file.Cache.RedisURL != "" {
		c.Cache.RedisURL = file.Cache.RedisURL
	}
	if file.Checksum.Attempts != 0 {
		c.Checksum.Attempts = file.Checksum.Attempts
	}
	if file.Checksum.Delay != 0 {
		c.Checksum.Delay = file.Checksum.Delay
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
