package git

import (
	"context"
	"strings"

	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// Fetch fetches from the remote, pruning stale remote-tracking refs.
// Returns vcs.ErrNetwork (wrapped) when the remote is unreachable.
func (g *Git) Fetch(ctx context.Context, remote string) error {
	args := []string{"fetch", "--prune", remote}
	output, err := g.run(ctx, args...)
	if err != nil {
		return fail("fetch", args, output, err)
	}
	return nil
}

// Push pushes branch to remote under the branch's own name, so it works
// regardless of which branch is checked out.
func (g *Git) Push(ctx context.Context, remote, branch string) error {
	args := []string{"push", remote, branch}
	output, err := g.run(ctx, args...)
	if err != nil {
		lower := strings.ToLower(output)
		if strings.Contains(lower, "rejected") || strings.Contains(lower, "non-fast-forward") {
			return &vcs.CommandError{Operation: "push", Args: args, Output: output, Err: vcs.ErrPushRejected}
		}
		return fail("push", args, output, err)
	}
	return nil
}

// FastForward merges the upstream tracking ref into the current branch,
// fast-forward only. A merge (not a pull) so nothing is re-fetched: the
// integration target is exactly the ref state the caller's fetch
// established. Returns vcs.ErrDiverged (wrapped) when local HEAD is not
// an ancestor of upstream.
func (g *Git) FastForward(ctx context.Context) error {
	args := []string{"merge", "--ff-only", "@{upstream}"}
	output, err := g.run(ctx, args...)
	if err != nil {
		lower := strings.ToLower(output)
		if strings.Contains(lower, "not possible to fast-forward") ||
			strings.Contains(lower, "diverg") {
			return &vcs.CommandError{Operation: "merge", Args: args, Output: output, Err: vcs.ErrDiverged}
		}
		return fail("merge", args, output, err)
	}
	return nil
}
