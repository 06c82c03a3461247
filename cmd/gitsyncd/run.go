package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/gitsyncd/internal/config"
	"github.com/mschirtzinger/gitsyncd/internal/engine"
	"github.com/mschirtzinger/gitsyncd/internal/lock"
	"github.com/mschirtzinger/gitsyncd/internal/vcs/git"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sync daemon",
	Long: `Run the sync loop until stopped: an immediate first cycle, then one
cycle per interval (and one per coalesced filesystem event burst when
--watch is set).

The first SIGINT or SIGTERM stops gracefully, letting the in-flight
cycle complete. A second signal interrupts the cycle; the lock marker
is still removed on the way out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		setupLogging(cfg)

		repo, err := git.Open(cfg.RepoPath)
		if err != nil {
			return err
		}

		e := engine.New(repo, newLock(cfg, repo.VCSDir()), cfg, slog.Default())

		var kicks <-chan struct{}
		if cfg.Watch {
			watcher, err := engine.NewWatcher(repo.Root(), cfg.Debounce, slog.Default())
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()
			kicks = watcher.Kicks()
		}

		ctx, forceCtx := shutdownContexts()
		return engine.NewDaemon(e, cfg, kicks, slog.Default()).Run(ctx, forceCtx)
	},
}

// newLock builds the sync lock for the configured (or default) marker
// directory. The default lives under the .git dir so the marker is
// filesystem-visible to contending processes but can never be staged.
func newLock(cfg *config.Config, vcsDir string) *lock.Lock {
	dir := cfg.LockDir
	if dir == "" {
		dir = filepath.Join(vcsDir, "gitsyncd")
	}

	opts := []lock.Option{}
	if cfg.LockMaxWait > 0 {
		opts = append(opts, lock.WithMaxWait(cfg.LockMaxWait))
	}
	return lock.New(dir, opts...)
}

// shutdownContexts maps the signal surface onto two contexts: the first
// SIGINT/SIGTERM cancels the graceful context (finish the cycle, then
// stop), the second cancels the forced context (interrupt the cycle;
// deferred lock release still runs).
func shutdownContexts() (graceful, forced context.Context) {
	gracefulCtx, gracefulCancel := context.WithCancel(context.Background())
	forcedCtx, forcedCancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigs
		slog.Info("shutdown requested, finishing current cycle (signal again to force)")
		gracefulCancel()
		<-sigs
		slog.Warn("forced shutdown, interrupting current cycle")
		forcedCancel()
	}()

	return gracefulCtx, forcedCtx
}
