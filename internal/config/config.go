// Package config loads server configuration from an optional YAML file with
// environment variable overrides for everything secret or deploy-specific.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Listen  string `yaml:"listen"`
	Backend string `yaml:"backend"` // "github" or "memory"

	GitHub struct {
		Owner  string `yaml:"owner"`
		Repo   string `yaml:"repo"`
		Branch string `yaml:"branch"`
		Token  string `yaml:"-"` // env only, never from file
	} `yaml:"github"`

	Admin struct {
		PasswordHash string `yaml:"password_hash"`
		SessionKey   string `yaml:"session_key"`
	} `yaml:"admin"`

	DeployHookURL string `yaml:"deploy_hook_url"`

	Regen struct {
		WindowSeconds         int `yaml:"window_seconds"`
		NotFoundWindowSeconds int `yaml:"not_found_window_seconds"`
	} `yaml:"regen"`

	Retry struct {
		Attempts     int `yaml:"attempts"`
		DelaySeconds int `yaml:"delay_seconds"`
	} `yaml:"retry"`
}

// Load reads the file at path (skipped when empty or absent) and applies
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		Listen:  ":8080",
		Backend: "github",
	}
	cfg.GitHub.Branch = "main"
	cfg.Regen.WindowSeconds = 60
	cfg.Regen.NotFoundWindowSeconds = 30
	cfg.Retry.Attempts = 3
	cfg.Retry.DelaySeconds = 1

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Running on env vars alone is fine.
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg.GitHub.Token, "GITHUB_TOKEN")
	applyEnv(&cfg.GitHub.Owner, "GITHUB_OWNER")
	applyEnv(&cfg.GitHub.Repo, "GITHUB_PAGES_REPO")
	applyEnv(&cfg.GitHub.Branch, "GITHUB_BRANCH")
	applyEnv(&cfg.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	applyEnv(&cfg.Admin.SessionKey, "SESSION_KEY")
	applyEnv(&cfg.DeployHookURL, "VERCEL_DEPLOY_HOOK")

	return cfg, nil
}

// Validate checks the fields the chosen backend actually needs.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory":
	case "github":
		if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
			return errors.New("github backend requires owner and repo (GITHUB_OWNER, GITHUB_PAGES_REPO)")
		}
		if c.GitHub.Token == "" {
			return errors.New("github backend requires a token (GITHUB_TOKEN)")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Admin.PasswordHash == "" {
		return errors.New("admin password hash is required (ADMIN_PASSWORD_HASH)")
	}
	if len(c.Admin.SessionKey) < 32 {
		return errors.New("session key of at least 32 characters is required (SESSION_KEY)")
	}
	return nil
}

// RegenWindow returns the staleness window for cached pages.
func (c Config) RegenWindow() time.Duration {
	return time.Duration(c.Regen.WindowSeconds) * time.Second
}

// NotFoundWindow returns the shorter re-check window for absent pages.
func (c Config) NotFoundWindow() time.Duration {
	return time.Duration(c.Regen.NotFoundWindowSeconds) * time.Second
}

// RetryDelay returns the base delay between retry attempts.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.Retry.DelaySeconds) * time.Second
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
