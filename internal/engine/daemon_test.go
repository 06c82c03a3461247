package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mschirtzinger/gitsyncd/internal/lock"
	"github.com/mschirtzinger/gitsyncd/internal/vcs/git"
)

func TestDaemonRunsImmediateCycleAndStops(t *testing.T) {
	f := newSyncFixture(t)
	writeFile(t, f.work, "eager.txt", "synced at startup\n")

	cfg := f.engine.cfg
	cfg.Interval = time.Hour // only the immediate first cycle should run

	d := NewDaemon(f.engine, cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, context.Background())
	}()

	// The first cycle needs no trigger; poll the upstream for its result.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if msg := gitRun(t, f.upstream, "log", "-1", "--format=%B", "main"); strings.Contains(msg, LoopMarker) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first cycle never pushed")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after graceful cancel")
	}
}

func TestDaemonGracefulStopWhileLockContended(t *testing.T) {
	f := newSyncFixture(t)

	// Another process holds the lock while the daemon's first cycle
	// waits for it. The graceful signal alone must unblock the wait;
	// requiring a second (forced) signal would be a hang in practice.
	repo, err := git.Open(f.work)
	if err != nil {
		t.Fatalf("opening repository: %v", err)
	}
	lockDir := filepath.Join(repo.VCSDir(), "gitsyncd")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(lockDir, lock.MarkerName)
	if err := os.WriteFile(marker, []byte("9999999 otherhost 2026-01-01T00:00:00Z\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	contended := newTestEngine(t, f.work, []lock.Option{
		lock.WithPollInterval(10 * time.Millisecond),
	})
	d := NewDaemon(contended, contended.cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, context.Background())
	}()

	// Let the first cycle reach the lock wait, then request shutdown.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("graceful shutdown blocked on lock contention")
	}

	// The marker belongs to the other holder and must still be there.
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("foreign marker removed: %v", err)
	}
}

func TestDaemonCyclesOnKick(t *testing.T) {
	f := newSyncFixture(t)

	cfg := f.engine.cfg
	cfg.Interval = time.Hour

	kicks := make(chan struct{}, 1)
	d := NewDaemon(f.engine, cfg, kicks, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, context.Background())
	}()

	// Let the immediate no-op cycle pass, then create work and kick.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, f.work, "kicked.txt", "via watcher\n")
	kicks <- struct{}{}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if out := gitRun(t, f.upstream, "ls-tree", "--name-only", "main"); strings.Contains(out, "kicked.txt") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("kicked cycle never pushed")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}
