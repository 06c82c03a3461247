package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// CurrentBranch returns the checked-out branch name.
// Returns vcs.ErrDetached if HEAD is not on a branch.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	args := []string{"symbolic-ref", "--short", "HEAD"}
	output, err := g.run(ctx, args...)
	if err != nil {
		if strings.Contains(strings.ToLower(output), "not a symbolic ref") {
			return "", vcs.ErrDetached
		}
		return "", fail("symbolic-ref", args, output, err)
	}
	return output, nil
}

// UpstreamRef returns the upstream tracking ref for the current branch in
// "remote/branch" form. Returns vcs.ErrNoUpstream if none is configured.
func (g *Git) UpstreamRef(ctx context.Context) (string, error) {
	args := []string{"rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}"}
	output, err := g.run(ctx, args...)
	if err != nil {
		lower := strings.ToLower(output)
		if strings.Contains(lower, "no upstream") || strings.Contains(lower, "does not point to a branch") {
			return "", vcs.ErrNoUpstream
		}
		return "", fail("rev-parse", args, output, err)
	}
	return output, nil
}

// Divergence returns ahead/behind counts between local HEAD and upstream.
// Pure read-evaluation against already-fetched remote-tracking refs; it
// does not touch the network.
func (g *Git) Divergence(ctx context.Context, upstream string) (vcs.Divergence, error) {
	var div vcs.Divergence

	args := []string{"rev-list", "--left-right", "--count", upstream + "...HEAD"}
	output, err := g.run(ctx, args...)
	if err != nil {
		return div, fail("rev-list", args, output, err)
	}

	// Output format: "<behind>\t<ahead>" (left = upstream-only commits)
	if _, err := fmt.Sscanf(output, "%d %d", &div.Behind, &div.Ahead); err != nil {
		return div, fmt.Errorf("unexpected rev-list output %q: %w", output, err)
	}

	return div, nil
}
