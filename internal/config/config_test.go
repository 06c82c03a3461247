package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := New()
	cfg.RepoPath = t.TempDir()
	return cfg
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want origin", cfg.Remote)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Interval = %s, want 30s", cfg.Interval)
	}
	if cfg.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce = %s, want 500ms", cfg.Debounce)
	}
	if cfg.CommitPrefix != "gitsyncd:" {
		t.Errorf("CommitPrefix = %q", cfg.CommitPrefix)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name:   "defaults with repo path",
			mutate: func(t *testing.T, c *Config) {},
		},
		{
			name:    "missing repo path",
			mutate:  func(t *testing.T, c *Config) { c.RepoPath = "" },
			wantErr: true,
		},
		{
			name: "repo path does not exist",
			mutate: func(t *testing.T, c *Config) {
				c.RepoPath = filepath.Join(c.RepoPath, "missing")
			},
			wantErr: true,
		},
		{
			name: "repo path is a file",
			mutate: func(t *testing.T, c *Config) {
				file := filepath.Join(c.RepoPath, "file")
				if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
				c.RepoPath = file
			},
			wantErr: true,
		},
		{
			name:    "empty remote",
			mutate:  func(t *testing.T, c *Config) { c.Remote = "" },
			wantErr: true,
		},
		{
			name:    "zero interval",
			mutate:  func(t *testing.T, c *Config) { c.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "negative interval",
			mutate:  func(t *testing.T, c *Config) { c.Interval = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative lock max wait",
			mutate:  func(t *testing.T, c *Config) { c.LockMaxWait = -time.Second },
			wantErr: true,
		},
		{
			name:   "zero lock max wait is unlimited",
			mutate: func(t *testing.T, c *Config) { c.LockMaxWait = 0 },
		},
		{
			name:    "empty commit prefix",
			mutate:  func(t *testing.T, c *Config) { c.CommitPrefix = "" },
			wantErr: true,
		},
		{
			name: "watch with zero debounce",
			mutate: func(t *testing.T, c *Config) {
				c.Watch = true
				c.Debounce = 0
			},
			wantErr: true,
		},
		{
			name: "zero debounce without watch is fine",
			mutate: func(t *testing.T, c *Config) {
				c.Debounce = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(t, cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
