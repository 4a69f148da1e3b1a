package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Default admin credentials, only meant for local development.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Config holds all runtime configuration for the site.
// Values are populated from .resume.yaml, RESUME_* env vars, and CLI flags.
// PORT is honoured on its own as well, the way hosting platforms set it.
type Config struct {
	Port             string        `mapstructure:"port"`
	GinMode          string        `mapstructure:"gin_mode"`
	DatabasePath     string        `mapstructure:"database_path"`
	ResumeFile       string        `mapstructure:"resume_file"`
	WatchResume      bool          `mapstructure:"watch_resume"`
	GitHubUser       string        `mapstructure:"github_user"`
	ContributionsURL string        `mapstructure:"contributions_url"`
	ContributionsTTL time.Duration `mapstructure:"contributions_ttl"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	AdminUsername    string        `mapstructure:"admin_username"`
	AdminPassword    string        `mapstructure:"admin_password"`
	HashSalt         string        `mapstructure:"hash_salt"`
	LogLevel         string        `mapstructure:"log_level"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("port", "8080")
	viper.SetDefault("gin_mode", "release")
	viper.SetDefault("database_path", "resume.db")
	viper.SetDefault("resume_file", "")
	viper.SetDefault("watch_resume", false)
	viper.SetDefault("github_user", "")
	viper.SetDefault("contributions_url", "https://github-contributions-api.jogruber.de/v4")
	viper.SetDefault("contributions_ttl", time.Hour)
	viper.SetDefault("fetch_timeout", 10*time.Second)
	viper.SetDefault("admin_username", DefaultAdminUsername)
	viper.SetDefault("admin_password", DefaultAdminPassword)
	viper.SetDefault("hash_salt", "")
	viper.SetDefault("log_level", "info")

	viper.SetEnvPrefix("RESUME")
	viper.AutomaticEnv()
	if err := viper.BindEnv("port", "RESUME_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("config: invalid port %q", c.Port)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: gin_mode must be debug, release or test, got %q", c.GinMode)
	}
	if c.ContributionsTTL < 0 {
		return fmt.Errorf("config: contributions_ttl must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config: fetch_timeout must be positive")
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// DefaultCredentials reports whether the admin login still uses the
// development defaults.
func (c Config) DefaultCredentials() bool {
	return c.AdminUsername == DefaultAdminUsername || c.AdminPassword == DefaultAdminPassword
}
