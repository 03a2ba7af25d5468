package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional; these tests fail when they drift.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default backend is localhost:8000", func(t *testing.T) {
		t.Parallel()
		if got := cfg.BackendURL(); got != "http://localhost:8000" {
			t.Errorf("expected BackendURL to be 'http://localhost:8000', got '%s'", got)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default rendering limits", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxChars != 2000 || cfg.PageSize != 50 {
			t.Errorf("expected 2000/50, got %d/%d", cfg.MaxChars, cfg.PageSize)
		}
	})

	t.Run("default listen address is loopback", func(t *testing.T) {
		t.Parallel()
		if cfg.ListenAddr != "127.0.0.1:8787" {
			t.Errorf("unexpected ListenAddr %q", cfg.ListenAddr)
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to be valid, got %v", err)
		}
	})
}

// TestBackendURL tests how the backend address is derived.
func TestBackendURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "host and port", cfg: Config{Host: "10.0.0.5", Port: 9000}, want: "http://10.0.0.5:9000"},
		{name: "ipv6 host", cfg: Config{Host: "::1", Port: 8000}, want: "http://[::1]:8000"},
		{name: "base url wins", cfg: Config{Host: "ignored", Port: 1, BaseURL: "https://parser.example/api"}, want: "https://parser.example/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.BackendURL(); got != tt.want {
				t.Errorf("BackendURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}},
		{name: "valid base url", modify: func(c *Config) { c.BaseURL = "https://example.com" }},
		{name: "base url without scheme", modify: func(c *Config) { c.BaseURL = "example.com" }, wantErr: ErrInvalidBaseURL},
		{name: "empty host", modify: func(c *Config) { c.Host = "" }, wantErr: ErrInvalidHost},
		{name: "empty host is fine with base url", modify: func(c *Config) { c.Host = ""; c.BaseURL = "http://h" }},
		{name: "port zero", modify: func(c *Config) { c.Port = 0 }, wantErr: ErrInvalidPort},
		{name: "port too large", modify: func(c *Config) { c.Port = 70000 }, wantErr: ErrInvalidPort},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{name: "json and markdown", modify: func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, wantErr: ErrConflictingReportFormats},
		{name: "zero max chars", modify: func(c *Config) { c.MaxChars = 0 }, wantErr: ErrInvalidMaxChars},
		{name: "negative page size", modify: func(c *Config) { c.PageSize = -1 }, wantErr: ErrInvalidPageSize},
		{name: "offline without cache", modify: func(c *Config) { c.Offline = true; c.NoCache = true }, wantErr: ErrOfflineWithoutCache},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestGetProfile tests profile selection and merging with defaults.
func TestGetProfile(t *testing.T) {
	t.Parallel()

	f := &File{
		Profile: "staging",
		Defaults: Profile{
			Port:    8000,
			Timeout: 10 * time.Second,
			Headers: map[string]string{"X-Team": "ir", "X-Env": "default"},
		},
		Profiles: map[string]Profile{
			"staging": {Host: "staging.local", Headers: map[string]string{"X-Env": "staging"}},
			"prod":    {BaseURL: "https://parser.prod", Proxy: "127.0.0.1:1080", Timeout: time.Minute},
		},
	}

	t.Run("named profile is merged over defaults", func(t *testing.T) {
		t.Parallel()
		got, err := f.GetProfile("prod")
		if err != nil {
			t.Fatal(err)
		}
		want := Profile{
			Port:    8000,
			BaseURL: "https://parser.prod",
			Proxy:   "127.0.0.1:1080",
			Timeout: time.Minute,
			Headers: map[string]string{"X-Team": "ir", "X-Env": "default"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty name uses the file's profile key", func(t *testing.T) {
		t.Parallel()
		got, err := f.GetProfile("")
		if err != nil {
			t.Fatal(err)
		}
		if got.Host != "staging.local" || got.Headers["X-Env"] != "staging" || got.Headers["X-Team"] != "ir" {
			t.Errorf("unexpected profile %+v", got)
		}
	})

	t.Run("defaults are not modified by merging", func(t *testing.T) {
		t.Parallel()
		if _, err := f.GetProfile("staging"); err != nil {
			t.Fatal(err)
		}
		if f.Defaults.Headers["X-Env"] != "default" {
			t.Error("expected defaults headers to stay untouched")
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()
		_, err := f.GetProfile("nope")
		if !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("profile names are sorted", func(t *testing.T) {
		t.Parallel()
		if diff := cmp.Diff([]string{"prod", "staging"}, f.ProfileNames()); diff != "" {
			t.Errorf("names mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestApplyProfile tests that explicit flags win over profile values.
func TestApplyProfile(t *testing.T) {
	t.Parallel()

	p := Profile{
		Host:    "profile-host",
		Port:    9000,
		Proxy:   "127.0.0.1:1080",
		Timeout: time.Minute,
		Headers: map[string]string{"X-Api-Key": "from-profile", "X-Team": "ir"},
	}

	t.Run("no flags changed", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ApplyProfile(p, nil)
		if cfg.BackendURL() != "http://profile-host:9000" || cfg.Proxy != p.Proxy || cfg.Timeout != time.Minute {
			t.Errorf("profile not applied: %+v", cfg)
		}
	})

	t.Run("changed flags are kept", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Host = "flag-host"
		cfg.Headers = map[string]string{"X-Api-Key": "from-flag"}
		cfg.ApplyProfile(p, func(flag string) bool { return flag == FlagHost })
		if cfg.Host != "flag-host" || cfg.Port != 9000 {
			t.Errorf("unexpected host/port %s:%d", cfg.Host, cfg.Port)
		}
		want := map[string]string{"X-Api-Key": "from-flag", "X-Team": "ir"}
		if diff := cmp.Diff(want, cfg.Headers); diff != "" {
			t.Errorf("headers mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("host flag suppresses profile base url", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Host = "flag-host"
		cfg.ApplyProfile(Profile{BaseURL: "https://x"}, func(flag string) bool { return flag == FlagHost })
		if cfg.BaseURL != "" {
			t.Errorf("expected base url to stay empty, got %q", cfg.BaseURL)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.parsescope")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".parsescope")

		content := `profile: lab
defaults:
  port: 8000
  timeout: 45s
profiles:
  lab:
    host: 10.66.52.73
    headers:
      X-Api-Key: "secret"
  remote:
    baseURL: https://parser.example.org
    proxy: 127.0.0.1:9050
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Profile != "lab" {
			t.Errorf("expected profile lab, got %q", cf.Profile)
		}
		if cf.Defaults.Timeout != 45*time.Second {
			t.Errorf("expected default timeout 45s, got %v", cf.Defaults.Timeout)
		}
		lab := cf.Profiles["lab"]
		if lab.Host != "10.66.52.73" || lab.Headers["X-Api-Key"] != "secret" {
			t.Errorf("unexpected lab profile %+v", lab)
		}
		if cf.Profiles["remote"].Proxy != "127.0.0.1:9050" {
			t.Errorf("unexpected remote profile %+v", cf.Profiles["remote"])
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".parsescope")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Profiles map", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".parsescope")
		if err := os.WriteFile(configPath, []byte("defaults:\n  port: 9000\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Profiles == nil {
			t.Error("expected Profiles map to be initialized")
		}
	})
}

// TestConfigLoad tests the full file lookup and profile application.
func TestConfigLoad(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	content := `profiles:
  lab:
    host: lab.local
    port: 9001
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Run("applies selected profile", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ConfigFilePath = configPath
		cfg.Profile = "lab"
		if err := cfg.Load(nil); err != nil {
			t.Fatal(err)
		}
		if cfg.BackendURL() != "http://lab.local:9001" {
			t.Errorf("unexpected backend %q", cfg.BackendURL())
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ConfigFilePath = "/nonexistent/parsescope.yaml"
		if err := cfg.Load(nil); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ConfigFilePath = configPath
		cfg.Profile = "missing"
		if err := cfg.Load(nil); !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("unexpected data dir %q", XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("unexpected config dir %q", XDGConfigDir())
	}
}
