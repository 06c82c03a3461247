package git

import (
	"context"
	"strings"
)

// StageAll stages every change under the repository root, respecting the
// repository's ignore rules. Idempotent: staging an unchanged tree is a
// no-op.
func (g *Git) StageAll(ctx context.Context) error {
	args := []string{"add", "--all"}
	output, err := g.run(ctx, args...)
	if err != nil {
		return fail("add", args, output, err)
	}
	return nil
}

// HasStagedChanges reports whether the staged tree differs from HEAD.
func (g *Git) HasStagedChanges(ctx context.Context) (bool, error) {
	// Exit 1 means differences, 0 means none
	args := []string{"diff", "--cached", "--quiet"}
	output, err := g.run(ctx, args...)
	switch exitCode(err) {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fail("diff", args, output, err)
	}
}

// IsDirty reports whether tracked files have uncommitted modifications,
// independent of staging state. Untracked files do not count: only
// tracked edits can conflict with a fast-forward and need a stash.
func (g *Git) IsDirty(ctx context.Context) (bool, error) {
	args := []string{"status", "--porcelain", "--untracked-files=no"}
	output, err := g.run(ctx, args...)
	if err != nil {
		return false, fail("status", args, output, err)
	}
	return strings.TrimSpace(output) != "", nil
}

// Commit creates a commit from the staged tree with the given message.
func (g *Git) Commit(ctx context.Context, message string) error {
	args := []string{"commit", "-m", message}
	output, err := g.run(ctx, args...)
	if err != nil {
		return fail("commit", args, output, err)
	}
	return nil
}
