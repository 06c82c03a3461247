package engine

import (
	"context"

	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// RepositoryState is a transient snapshot computed fresh each cycle.
// It is never cached: it must reflect ground truth at time of use.
type RepositoryState struct {
	// HasLocalChanges is true when the staged tree differs from HEAD
	// after staging everything.
	HasLocalChanges bool

	// Ahead and Behind count commits between local HEAD and upstream.
	// Only valid when DivergenceKnown is true.
	Ahead  int
	Behind int

	// DivergenceKnown is false when the fetch failed (typically
	// vcs.ErrNetwork) and the counts could not be refreshed. The cycle
	// then skips only the download half.
	DivergenceKnown bool
}

// HasLocalChanges stages everything (respecting ignore rules) and reports
// whether the staged tree differs from HEAD. Note the side effect: the
// upload flow requires files already staged, so detection and staging are
// one step. Staging is idempotent.
func (e *Engine) HasLocalChanges(ctx context.Context) (bool, error) {
	if err := e.repo.StageAll(ctx); err != nil {
		return false, err
	}
	return e.repo.HasStagedChanges(ctx)
}

// RemoteDivergence fetches from the remote (pruning stale remote-tracking
// refs) and returns ahead/behind counts between local HEAD and the
// upstream tracking ref. A fetch failure surfaces as-is; vcs.ErrNetwork
// is recoverable and only aborts the download half of the cycle.
func (e *Engine) RemoteDivergence(ctx context.Context) (vcs.Divergence, error) {
	if err := e.repo.Fetch(ctx, e.cfg.Remote); err != nil {
		return vcs.Divergence{}, err
	}

	upstream, err := e.repo.UpstreamRef(ctx)
	if err != nil {
		return vcs.Divergence{}, err
	}

	return e.repo.Divergence(ctx, upstream)
}

// IsWorkingTreeDirty reports whether tracked files have uncommitted
// modifications, which decides whether a stash is required before a
// fast-forward integration.
func (e *Engine) IsWorkingTreeDirty(ctx context.Context) (bool, error) {
	return e.repo.IsDirty(ctx)
}

