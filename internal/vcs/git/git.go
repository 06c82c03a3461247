// Package git provides the git implementation of the VCS adapter.
//
// This package wraps the git CLI to provide the primitives the sync engine
// needs: staging, committing, pushing, fetching, fast-forward merges, stash
// handling, and ahead/behind counts. Command failures are classified into
// the sentinel errors of internal/vcs by inspecting git's output.
package git

import (
	"context"
	"os/exec"
	"strings"

	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// Git implements vcs.Repository for git repositories.
type Git struct {
	// root is the repository working directory root
	root string

	// gitDir is the resolved .git directory (worktree-aware)
	gitDir string
}

// Open creates a Git instance for the repository containing path.
// Returns vcs.ErrVCSNotAvailable if the git binary is missing and
// vcs.ErrNotRepository if path is not inside a git working tree.
func Open(path string) (*Git, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, vcs.ErrVCSNotAvailable
	}

	cmd := exec.Command("git", "-C", path, "rev-parse", "--show-toplevel", "--absolute-git-dir")
	output, err := cmd.Output()
	if err != nil {
		return nil, vcs.ErrNotRepository
	}

	lines := strings.SplitN(strings.TrimSpace(string(output)), "\n", 2)
	g := &Git{root: strings.TrimSpace(lines[0])}
	if len(lines) == 2 {
		g.gitDir = strings.TrimSpace(lines[1])
	}

	return g, nil
}

// Root returns the repository working directory root.
func (g *Git) Root() string {
	return g.root
}

// VCSDir returns the resolved .git directory path. For worktrees this is
// the worktree's private git dir, which keeps per-clone state (such as
// the sync lock marker) out of the working tree and out of staging.
func (g *Git) VCSDir() string {
	return g.gitDir
}

// run executes a git command in the repository root and returns its
// combined output, trimmed. The raw error is returned untouched; callers
// classify it into sentinel errors via fail().
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.root

	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

// fail wraps a command failure into a vcs.CommandError carrying the
// classified sentinel when the output matches a known failure mode.
func fail(operation string, args []string, output string, err error) error {
	return &vcs.CommandError{
		Operation: operation,
		Args:      args,
		Output:    output,
		Err:       classify(output, err),
	}
}

// classify maps git output onto the vcs sentinel errors. Unrecognized
// failures pass the raw exec error through.
func classify(output string, err error) error {
	lower := strings.ToLower(output)

	if isNetworkFailure(lower) {
		return vcs.ErrNetwork
	}

	return err
}

// isNetworkFailure reports whether lowered git output indicates the remote
// could not be reached, as opposed to the remote refusing the operation.
func isNetworkFailure(lower string) bool {
	for _, marker := range []string{
		"could not resolve host",
		"could not read from remote repository",
		"unable to access",
		"connection refused",
		"connection timed out",
		"network is unreachable",
		"no route to host",
		"operation timed out",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// exitCode returns the exit code from a command error, or -1 if the
// command did not run to completion.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
