// Package engine implements the synchronization engine: the concurrency-safe
// cycle that detects local and remote changes, moves them in the right
// direction, and never lets two cycles race on the same working directory.
//
// One cycle performs, in order: lock acquisition, upload attempt, download
// attempt, lock release. Upload precedes download so local work propagates
// outward before pulling inward; by the time download checks dirtiness,
// freshly committed local changes no longer need a stash. Lock release is
// deferred and therefore unconditional on every exit path.
//
// The engine holds no state across cycles. Repository state is recomputed
// fresh each cycle because external edits can land between cycles.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mschirtzinger/gitsyncd/internal/config"
	"github.com/mschirtzinger/gitsyncd/internal/lock"
	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// LoopMarker is the fixed token embedded in every automated commit message.
// Remote automation recognizes it and suppresses re-validation for the
// commit, preventing sync-triggered CI feedback loops. It is mandatory and
// not configurable.
const LoopMarker = "[skip ci]"

// Engine runs sync cycles against one repository working directory.
type Engine struct {
	repo vcs.Repository
	lock *lock.Lock
	cfg  *config.Config
	log  *slog.Logger
}

// New creates an Engine. The lock must be scoped to the same working
// directory as repo; the engine never touches the repository outside the
// lock's critical section.
func New(repo vcs.Repository, l *lock.Lock, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{repo: repo, lock: l, cfg: cfg, log: logger}
}

// CommitMessage builds the message for an automated commit: the configured
// bot prefix, a UTC timestamp for log correlation, and the mandatory loop
// marker. The content beyond the convention is informational only.
func (e *Engine) CommitMessage(now time.Time) string {
	return fmt.Sprintf("%s sync %s %s", e.cfg.CommitPrefix, now.UTC().Format(time.RFC3339), LoopMarker)
}

// stashLabel names a cycle-scoped stash so an orphaned one is recognizable
// in `git stash list` when restoration conflicts and a human takes over.
func (e *Engine) stashLabel(now time.Time) string {
	return fmt.Sprintf("gitsyncd auto-stash %s", now.UTC().Format(time.RFC3339))
}
