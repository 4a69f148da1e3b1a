package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("PORT", "")
	t.Setenv("RESUME_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Port", cfg.Port, "8080"},
		{"GinMode", cfg.GinMode, "release"},
		{"DatabasePath", cfg.DatabasePath, "resume.db"},
		{"ResumeFile", cfg.ResumeFile, ""},
		{"WatchResume", cfg.WatchResume, false},
		{"ContributionsURL", cfg.ContributionsURL, "https://github-contributions-api.jogruber.de/v4"},
		{"ContributionsTTL", cfg.ContributionsTTL, time.Hour},
		{"FetchTimeout", cfg.FetchTimeout, 10 * time.Second},
		{"AdminUsername", cfg.AdminUsername, "admin"},
		{"LogLevel", cfg.LogLevel, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	if !cfg.DefaultCredentials() {
		t.Error("DefaultCredentials() = false with default admin login")
	}
	if got := cfg.Addr(); got != ":8080" {
		t.Errorf("Addr() = %q, want :8080", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "plain PORT",
			envKey: "PORT",
			envVal: "9090",
			field:  func(c Config) any { return c.Port },
			want:   "9090",
		},
		{
			name:   "prefixed port",
			envKey: "RESUME_PORT",
			envVal: "7070",
			field:  func(c Config) any { return c.Port },
			want:   "7070",
		},
		{
			name:   "github_user",
			envKey: "RESUME_GITHUB_USER",
			envVal: "octocat",
			field:  func(c Config) any { return c.GitHubUser },
			want:   "octocat",
		},
		{
			name:   "contributions_ttl",
			envKey: "RESUME_CONTRIBUTIONS_TTL",
			envVal: "15m",
			field:  func(c Config) any { return c.ContributionsTTL },
			want:   15 * time.Minute,
		},
		{
			name:   "admin_password",
			envKey: "RESUME_ADMIN_PASSWORD",
			envVal: "s3cret",
			field:  func(c Config) any { return c.AdminPassword },
			want:   "s3cret",
		},
		{
			name:   "gin_mode",
			envKey: "RESUME_GIN_MODE",
			envVal: "debug",
			field:  func(c Config) any { return c.GinMode },
			want:   "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), ".resume.yaml")
	src := "github_user: from-file\nfetch_timeout: 3s\nadmin_username: owner\nadmin_password: hunter2\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitHubUser != "from-file" || cfg.FetchTimeout != 3*time.Second {
		t.Errorf("config file ignored: %+v", cfg)
	}
	if cfg.DefaultCredentials() {
		t.Error("DefaultCredentials() = true after overriding both")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Port: "8080", GinMode: "release", FetchTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, true},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true},
		{"unknown gin mode", func(c *Config) { c.GinMode = "prod" }, true},
		{"negative ttl", func(c *Config) { c.ContributionsTTL = -time.Second }, true},
		{"zero timeout", func(c *Config) { c.FetchTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
