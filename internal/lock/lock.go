// Package lock provides mutual exclusion over a repository working
// directory using a filesystem-visible marker file.
//
// The marker is the sole serialization primitive between sync cycles,
// including cycles run by independent processes. Acquisition polls until
// the marker is absent and then creates it atomically. There is no
// stale-lock expiry: auto-expiry risks two cycles mutating the same
// working directory concurrently, which is strictly forbidden, so a lock
// abandoned by a crashed process requires an operator to remove the file.
// The marker content (pid, hostname, acquisition time) exists to make
// that call an informed one.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrTimeout is returned by Acquire when a maximum wait is configured and
// the marker did not clear in time.
var ErrTimeout = errors.New("timed out waiting for sync lock")

// DefaultPollInterval is how often Acquire re-checks for the marker.
const DefaultPollInterval = time.Second

// MarkerName is the lock marker filename inside the lock directory.
const MarkerName = "sync.lock"

// Holder describes the process that created the marker.
type Holder struct {
	PID        int
	Hostname   string
	AcquiredAt time.Time
}

// Lock is a named exclusion token scoped to one repository working
// directory. At most one marker exists for a given path at any time.
type Lock struct {
	path         string
	pollInterval time.Duration
	maxWait      time.Duration
	held         bool
}

// Option configures a Lock.
type Option func(*Lock)

// WithPollInterval sets the acquisition poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(l *Lock) {
		if d > 0 {
			l.pollInterval = d
		}
	}
}

// WithMaxWait bounds how long Acquire waits for the marker to clear.
// Zero (the default) waits indefinitely.
func WithMaxWait(d time.Duration) Option {
	return func(l *Lock) {
		l.maxWait = d
	}
}

// New creates a Lock whose marker lives at dir/sync.lock.
// The directory is created on first Acquire if it does not exist.
func New(dir string, opts ...Option) *Lock {
	l := &Lock{
		path:         filepath.Join(dir, MarkerName),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the marker file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire blocks until the marker can be created, polling at the
// configured interval. It returns ErrTimeout if a maximum wait is set and
// exceeded, or ctx.Err() if the context is cancelled while waiting, so
// shutdown is never blocked on lock contention.
func (l *Lock) Acquire(ctx context.Context) error {
	if l.held {
		return fmt.Errorf("lock %s already held by this process", l.path)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating lock directory: %w", err)
	}

	var deadline time.Time
	if l.maxWait > 0 {
		deadline = time.Now().Add(l.maxWait)
	}

	for {
		err := l.tryCreate()
		if err == nil {
			l.held = true
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("creating lock marker: %w", err)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return fmt.Errorf("%w after %s (marker: %s)", ErrTimeout, l.maxWait, l.path)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

// tryCreate atomically creates the marker. O_CREATE|O_EXCL guarantees that
// exactly one contender wins even across independent processes.
func (l *Lock) tryCreate() error {
	hostname, _ := os.Hostname()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	_, werr := fmt.Fprintf(f, "%d %s %s\n", os.Getpid(), hostname, time.Now().UTC().Format(time.RFC3339))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		// A marker we cannot write is still a marker we created; undo it
		// so the holder metadata is never half-written.
		os.Remove(l.path)
		if werr != nil {
			return werr
		}
		return cerr
	}

	return nil
}

// Release removes the marker. Safe to call when the lock is not held, so
// it can sit in a defer on every exit path from the critical section.
func (l *Lock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock marker: %w", err)
	}
	return nil
}

// Held reports whether this process currently holds the lock.
func (l *Lock) Held() bool {
	return l.held
}

// ReadHolder reads the marker's holder metadata. Returns (nil, nil) when
// no marker exists.
func (l *Lock) ReadHolder() (*Holder, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lock marker: %w", err)
	}

	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) < 3 {
		return nil, fmt.Errorf("malformed lock marker %s: %q", l.path, strings.TrimSpace(string(data)))
	}

	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("malformed pid in lock marker %s: %w", l.path, err)
	}

	acquiredAt, err := time.Parse(time.RFC3339, fields[2])
	if err != nil {
		return nil, fmt.Errorf("malformed timestamp in lock marker %s: %w", l.path, err)
	}

	return &Holder{PID: pid, Hostname: fields[1], AcquiredAt: acquiredAt}, nil
}
