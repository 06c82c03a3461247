package engine

import (
	"context"
	"fmt"
	"time"
)

// UploadResult reports what the upload flow did.
type UploadResult struct {
	// Committed is false for a NoOp cycle (nothing staged differed
	// from HEAD).
	Committed bool

	// Pushed is true once the commit reached the remote. A commit that
	// exists locally but failed to push is retried by the next cycle's
	// upload, whose staged-diff guard prevents a duplicate commit.
	Pushed bool

	// Branch is the branch that was pushed.
	Branch string
}

// Upload stages everything, commits with the loop-safe message convention
// when the staged tree differs from HEAD, and pushes the current branch to
// the configured remote under the branch's own name. ahead is the commit
// count from this cycle's divergence check; a nonzero count means an
// earlier push failed and the push is re-attempted even with nothing new
// to commit.
//
// At most one commit is created per cycle when local changes exist, and
// zero when none exist. Push failures are surfaced, not retried within the
// cycle. Precondition: the sync lock is held.
func (e *Engine) Upload(ctx context.Context, ahead int) (UploadResult, error) {
	var res UploadResult

	changed, err := e.HasLocalChanges(ctx)
	if err != nil {
		return res, fmt.Errorf("detecting local changes: %w", err)
	}
	if !changed && ahead == 0 {
		return res, nil
	}

	branch, err := e.repo.CurrentBranch(ctx)
	if err != nil {
		return res, err
	}
	res.Branch = branch

	if changed {
		message := e.CommitMessage(time.Now())
		if err := e.repo.Commit(ctx, message); err != nil {
			return res, fmt.Errorf("committing staged changes: %w", err)
		}
		res.Committed = true
		e.log.Info("committed local changes", "branch", branch)
	}

	if err := e.repo.Push(ctx, e.cfg.Remote, branch); err != nil {
		// The commit exists locally; next cycle re-attempts the push
		// from the post-commit state.
		return res, fmt.Errorf("pushing %s to %s: %w", branch, e.cfg.Remote, err)
	}
	res.Pushed = true
	e.log.Info("pushed local changes", "branch", branch, "remote", e.cfg.Remote)

	return res, nil
}
