package git

import (
	"context"
	"strings"

	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// StashPush saves tracked working-tree modifications under label.
func (g *Git) StashPush(ctx context.Context, label string) error {
	args := []string{"stash", "push", "--message", label}
	output, err := g.run(ctx, args...)
	if err != nil {
		return fail("stash push", args, output, err)
	}
	return nil
}

// StashPop restores and drops the most recent stash entry. On conflict git
// leaves the entry in the stash list, which is exactly the behavior the
// engine relies on: the entry is preserved and vcs.ErrStashConflict is
// returned for a human to resolve.
func (g *Git) StashPop(ctx context.Context) error {
	args := []string{"stash", "pop"}
	output, err := g.run(ctx, args...)
	if err != nil {
		lower := strings.ToLower(output)
		if strings.Contains(lower, "conflict") || strings.Contains(lower, "could not restore") {
			return &vcs.CommandError{Operation: "stash pop", Args: args, Output: output, Err: vcs.ErrStashConflict}
		}
		return fail("stash pop", args, output, err)
	}
	return nil
}

// StashDrop discards the most recent stash entry without applying it.
func (g *Git) StashDrop(ctx context.Context) error {
	args := []string{"stash", "drop"}
	output, err := g.run(ctx, args...)
	if err != nil {
		return fail("stash drop", args, output, err)
	}
	return nil
}
