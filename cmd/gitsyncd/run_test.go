package main

import (
	"path/filepath"
	"testing"

	"github.com/mschirtzinger/gitsyncd/internal/config"
)

func TestNewLockDefaultDir(t *testing.T) {
	cfg := config.New()
	vcsDir := filepath.Join(t.TempDir(), ".git")

	l := newLock(cfg, vcsDir)
	want := filepath.Join(vcsDir, "gitsyncd", "sync.lock")
	if l.Path() != want {
		t.Errorf("default marker path = %q, want %q", l.Path(), want)
	}
}

func TestNewLockExplicitDir(t *testing.T) {
	cfg := config.New()
	cfg.LockDir = t.TempDir()

	l := newLock(cfg, filepath.Join(t.TempDir(), ".git"))
	want := filepath.Join(cfg.LockDir, "sync.lock")
	if l.Path() != want {
		t.Errorf("explicit marker path = %q, want %q", l.Path(), want)
	}
}
