// Package vcs provides a thin adapter over version-control primitives.
//
// The adapter exposes each primitive the sync engine needs (stage, commit,
// push, fetch, fast-forward integration, stash, divergence counts) as a single
// operation returning either success or a sentinel error from errors.go.
// No retry or branching logic lives here; policy belongs to the engine.
//
// # Usage
//
//	repo, err := git.Open("/path/to/clone")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	div, err := repo.Divergence(ctx, "origin/main")
//
// # Implementations
//
//   - internal/vcs/git: git implementation shelling out to the git CLI
package vcs

import "context"

// Divergence describes how local HEAD relates to its upstream tracking ref.
type Divergence struct {
	// Ahead is the number of commits local HEAD has that upstream lacks
	Ahead int

	// Behind is the number of commits upstream has that local HEAD lacks
	Behind int
}

// Repository defines the version-control operations the sync engine uses.
// Each method maps to one underlying VCS command and reports failure through
// the sentinel errors in this package so callers can branch with errors.Is.
type Repository interface {
	// Root returns the repository working directory root.
	Root() string

	// VCSDir returns the VCS metadata directory path (the .git directory,
	// worktree-aware). Per-clone state that must never be staged lives here.
	VCSDir() string

	// CurrentBranch returns the checked-out branch name.
	// Returns ErrDetached if HEAD is not on a branch.
	CurrentBranch(ctx context.Context) (string, error)

	// UpstreamRef returns the upstream tracking ref for the current branch
	// in "remote/branch" form. Returns ErrNoUpstream if none is configured.
	UpstreamRef(ctx context.Context) (string, error)

	// StageAll stages every change under the repository root, respecting
	// ignore rules. Idempotent.
	StageAll(ctx context.Context) error

	// HasStagedChanges reports whether the staged tree differs from HEAD.
	HasStagedChanges(ctx context.Context) (bool, error)

	// IsDirty reports whether tracked files have uncommitted modifications,
	// independent of staging state.
	IsDirty(ctx context.Context) (bool, error)

	// Commit creates a commit from the staged tree with the given message.
	Commit(ctx context.Context, message string) error

	// Push pushes branch to remote under the branch's own name.
	// Returns ErrPushRejected on a non-fast-forward rejection and
	// ErrNetwork when the remote is unreachable.
	Push(ctx context.Context, remote, branch string) error

	// Fetch fetches from remote, pruning stale remote-tracking refs.
	// Returns ErrNetwork when the remote is unreachable.
	Fetch(ctx context.Context, remote string) error

	// FastForward integrates the already-fetched upstream tracking ref
	// into the current branch by fast-forward only. Does not touch the
	// network; callers fetch first. Returns ErrDiverged when local HEAD
	// is not an ancestor of upstream.
	FastForward(ctx context.Context) error

	// StashPush saves tracked working-tree modifications under label.
	StashPush(ctx context.Context, label string) error

	// StashPop restores and drops the most recent stash entry.
	// Returns ErrStashConflict if restoration conflicts; the stash entry
	// is preserved in that case.
	StashPop(ctx context.Context) error

	// StashDrop discards the most recent stash entry without applying it.
	StashDrop(ctx context.Context) error

	// Divergence returns ahead/behind counts between local HEAD and
	// upstream. Pure read; does not fetch.
	Divergence(ctx context.Context, upstream string) (Divergence, error)
}
