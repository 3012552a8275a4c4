package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when CONFIG_FILE is not set and the file exists.
const DefaultConfigFile = "config.yaml"

// Config holds application configuration.
// Values come from an optional YAML file, then from the environment
// (a .env file is loaded into the environment first); environment wins.
type Config struct {
	Port   int    `yaml:"port"`
	AppEnv string `yaml:"app_env"`

	// GitLab configuration
	GitLabURL   string `yaml:"gitlab_url"`
	GitLabToken string `yaml:"gitlab_token"`
	ProjectID   string `yaml:"project_id"` // numeric ID or URL-style path, e.g. "group/project"

	PageSize              int `yaml:"page_size"`
	MaxPages              int `yaml:"max_pages"`
	CacheTTLSeconds       int `yaml:"cache_ttl_seconds"`
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	SentryDSN string `yaml:"sentry_dsn"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:                  8080,
		AppEnv:                "development",
		GitLabURL:             "https://gitlab.com",
		PageSize:              5,
		MaxPages:              10,
		CacheTTLSeconds:       60,
		RequestTimeoutSeconds: 30,
	}
}

// Load loads configuration from the YAML file and environment variables.
func Load() (*Config, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Defaults()

	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// loadFile merges a YAML file into cfg. A missing default file is ignored;
// a missing explicitly configured file is an error.
func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML for %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.AppEnv = getEnvOrDefault("APP_ENV", c.AppEnv)
	c.GitLabURL = getEnvOrDefault("GITLAB_URL", c.GitLabURL)
	c.GitLabToken = getEnvOrDefault("GITLAB_TOKEN", c.GitLabToken)
	c.ProjectID = getEnvOrDefault("GITLAB_PROJECT_ID", c.ProjectID)
	c.PageSize = getEnvInt("PAGE_SIZE", c.PageSize)
	c.MaxPages = getEnvInt("GITLAB_MAX_PAGES", c.MaxPages)
	c.CacheTTLSeconds = getEnvInt("CACHE_TTL_SECONDS", c.CacheTTLSeconds)
	c.RequestTimeoutSeconds = getEnvInt("REQUEST_TIMEOUT_SECONDS", c.RequestTimeoutSeconds)
	c.SentryDSN = getEnvOrDefault("SENTRY_DSN", c.SentryDSN)
}

// HasGitLabConfig returns true if a GitLab token is configured.
func (c *Config) HasGitLabConfig() bool {
	return c.GitLabToken != ""
}

// HasSentryConfig returns true if error reporting is enabled.
func (c *Config) HasSentryConfig() bool {
	return c.SentryDSN != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses a non-negative integer, keeping the default on bad input.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
