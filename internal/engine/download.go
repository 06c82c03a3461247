package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// DownloadResult reports what the download flow did.
type DownloadResult struct {
	// FastForwarded is the number of upstream commits integrated.
	FastForwarded int

	// Stashed is true when the dirty working tree was stashed before
	// the fast-forward.
	Stashed bool

	// StashRestored is true when the stash was popped cleanly. When
	// Stashed is true and StashRestored is false, the stash entry is
	// still in place awaiting manual recovery.
	StashRestored bool
}

// Download integrates upstream commits by fast-forward only. behind is the
// count computed by the change detector this cycle; the detector already
// fetched, and the integration is a merge against the fetched tracking
// ref, so Download never touches the network and FastForwarded is exactly
// the detector's count.
//
// A dirty working tree is always stashed first, favoring safety over
// avoiding a stash cycle. On a diverged history the flow aborts, leaving
// any stash in place; on a stash-restore conflict the stash entry is
// preserved and vcs.ErrStashConflict surfaces. Either condition recurs
// every cycle until resolved externally, which is the intended signal.
// Local commits are never rewritten and uncommitted work is never
// silently dropped. Precondition: the sync lock is held.
func (e *Engine) Download(ctx context.Context, behind int) (DownloadResult, error) {
	var res DownloadResult

	if behind == 0 {
		return res, nil
	}

	dirty, err := e.IsWorkingTreeDirty(ctx)
	if err != nil {
		return res, fmt.Errorf("checking working tree: %w", err)
	}

	if dirty {
		label := e.stashLabel(time.Now())
		if err := e.repo.StashPush(ctx, label); err != nil {
			return res, fmt.Errorf("stashing dirty working tree: %w", err)
		}
		res.Stashed = true
		e.log.Info("stashed dirty working tree", "label", label)
	}

	if err := e.repo.FastForward(ctx); err != nil {
		if res.Stashed {
			// The stash stays put; dropping it here would lose the
			// operator's uncommitted work.
			e.log.Warn("fast-forward failed with a stash outstanding; run `git stash pop` after resolving",
				"error", err)
		}
		if errors.Is(err, vcs.ErrDiverged) {
			return res, fmt.Errorf("fast-forward impossible, histories must be reconciled manually: %w", err)
		}
		return res, fmt.Errorf("fast-forward merge: %w", err)
	}
	res.FastForwarded = behind
	e.log.Info("fast-forwarded local branch", "commits", behind)

	if res.Stashed {
		if err := e.repo.StashPop(ctx); err != nil {
			if errors.Is(err, vcs.ErrStashConflict) {
				return res, fmt.Errorf("restoring stashed changes conflicted; stash preserved for manual resolution: %w", err)
			}
			return res, fmt.Errorf("restoring stashed changes: %w", err)
		}
		res.StashRestored = true
		e.log.Info("restored stashed changes")
	}

	return res, nil
}
