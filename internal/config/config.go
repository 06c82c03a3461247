// Package config holds the process configuration for gitsyncd.
//
// Trigger mode (interval polling vs. filesystem events) and all other
// behavioral knobs are deployment-time choices resolved once at startup
// into this struct. Nothing here changes at runtime.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Defaults for fields left unset by flags, environment, or config file.
const (
	DefaultRemote       = "origin"
	DefaultInterval     = 30 * time.Second
	DefaultDebounce     = 500 * time.Millisecond
	DefaultCommitPrefix = "gitsyncd:"
)

// Config is the resolved process configuration.
type Config struct {
	// RepoPath is the repository working directory to synchronize.
	RepoPath string

	// Remote is the remote name to fetch from and push to.
	Remote string

	// Interval is the wait between sync cycles.
	Interval time.Duration

	// LockDir is where the sync lock marker lives. Empty selects the
	// default: a gitsyncd subdirectory of the repository's .git dir,
	// which is filesystem-visible to contending processes but can never
	// be staged.
	LockDir string

	// LockMaxWait bounds lock acquisition. Zero waits indefinitely.
	LockMaxWait time.Duration

	// CommitPrefix is the fixed tag identifying bot-originated commits.
	// The loop-prevention marker is appended separately and is not
	// configurable.
	CommitPrefix string

	// Watch enables the filesystem-event trigger alongside the interval.
	Watch bool

	// Debounce is how long the watcher coalesces event bursts before
	// kicking a cycle. Only used when Watch is set.
	Debounce time.Duration

	// LogFile, when set, routes daemon logs to a rotating file instead
	// of stderr.
	LogFile string

	// Verbose enables debug-level logging.
	Verbose bool
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Remote:       DefaultRemote,
		Interval:     DefaultInterval,
		Debounce:     DefaultDebounce,
		CommitPrefix: DefaultCommitPrefix,
	}
}

// Validate checks the configuration and reports the first problem found.
// Repository validity itself is checked by the lifecycle manager when it
// opens the repository; this only validates the fields.
func (c *Config) Validate() error {
	if c.RepoPath == "" {
		return errors.New("repository path is required")
	}

	info, err := os.Stat(c.RepoPath)
	if err != nil {
		return fmt.Errorf("repository path %s: %w", c.RepoPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository path %s is not a directory", c.RepoPath)
	}

	if c.Remote == "" {
		return errors.New("remote name is required")
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}

	if c.LockMaxWait < 0 {
		return fmt.Errorf("lock max wait must not be negative, got %s", c.LockMaxWait)
	}

	if c.CommitPrefix == "" {
		return errors.New("commit prefix is required")
	}

	if c.Watch && c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive in watch mode, got %s", c.Debounce)
	}

	return nil
}
