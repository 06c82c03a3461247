package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mschirtzinger/gitsyncd/internal/config"
)

// Daemon is the lifecycle manager: it runs the first cycle immediately,
// then loops the orchestrator on the configured interval (and on watcher
// kicks in watch mode) until shutdown.
type Daemon struct {
	engine *Engine
	cfg    *config.Config
	log    *slog.Logger

	// kicks delivers early-cycle triggers from the filesystem watcher.
	// Nil when watch mode is off.
	kicks <-chan struct{}
}

// NewDaemon creates the lifecycle manager around an engine. kicks may be
// nil when no event trigger is configured.
func NewDaemon(e *Engine, cfg *config.Config, kicks <-chan struct{}, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{engine: e, cfg: cfg, log: logger, kicks: kicks}
}

// Run drives the sync loop until shutdown.
//
// ctx is the graceful-shutdown context: once cancelled, the loop exits
// after the in-flight cycle completes, and a cycle still waiting on the
// lock gives up the wait right away (no critical section was entered, so
// there is no work to finish). forceCtx is the forced-termination context
// passed into every cycle's operations: cancelling it interrupts the
// cycle mid-flight, and the cycle's deferred lock release still runs
// before Run returns. Cleanup on truly abnormal termination (kill -9) is
// best-effort by nature; an abandoned marker then requires operator
// removal, which is the documented cost of the no-auto-expiry rule.
func (d *Daemon) Run(ctx, forceCtx context.Context) error {
	d.log.Info("sync daemon starting",
		"repo", d.cfg.RepoPath,
		"remote", d.cfg.Remote,
		"interval", d.cfg.Interval,
		"watch", d.cfg.Watch)

	// First cycle runs immediately, no initial wait.
	d.runOnce(ctx, forceCtx)

	for {
		select {
		case <-ctx.Done():
			d.log.Info("sync daemon stopping")
			return nil
		case <-d.kicks:
			d.runOnce(ctx, forceCtx)
		case <-time.After(d.cfg.Interval):
			d.runOnce(ctx, forceCtx)
		}
	}
}

// runOnce executes one cycle and absorbs its errors: every per-cycle
// failure is logged with context at the cycle boundary and the loop keeps
// going. Nothing short of startup misconfiguration stops the process.
func (d *Daemon) runOnce(gracefulCtx, forceCtx context.Context) {
	report, err := d.engine.RunCycle(forceCtx, gracefulCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.log.Error("sync cycle could not start", "error", err)
		return
	}

	d.log.Debug("sync cycle finished",
		"duration", report.Finished.Sub(report.Started).Round(time.Millisecond),
		"ahead", report.State.Ahead,
		"behind", report.State.Behind,
		"committed", report.Upload.Committed,
		"pushed", report.Upload.Pushed,
		"fast_forwarded", report.Download.FastForwarded,
		"stashed", report.Download.Stashed,
		"failed", report.Failed())
}
