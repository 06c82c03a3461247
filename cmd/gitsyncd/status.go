package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/gitsyncd/internal/config"
	"github.com/mschirtzinger/gitsyncd/internal/ui"
	"github.com/mschirtzinger/gitsyncd/internal/vcs"
	"github.com/mschirtzinger/gitsyncd/internal/vcs/git"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report repository and lock state without syncing",
	Long: `Print the current branch, divergence against the last-fetched upstream
state, working tree cleanliness, and the sync lock's holder. Read-only:
no fetch, no staging, no lock taken. Divergence counts reflect the last
fetch, not the remote's live state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		repo, err := git.Open(cfg.RepoPath)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		fmt.Printf("repository: %s\n", ui.RenderAccent(repo.Root()))

		branch, err := repo.CurrentBranch(ctx)
		if err != nil {
			if !errors.Is(err, vcs.ErrDetached) {
				return err
			}
			fmt.Printf("branch:     %s\n", ui.RenderWarn("detached HEAD"))
		} else {
			fmt.Printf("branch:     %s\n", branch)
		}

		upstream, err := repo.UpstreamRef(ctx)
		switch {
		case errors.Is(err, vcs.ErrNoUpstream):
			fmt.Printf("upstream:   %s\n", ui.RenderWarn("none configured"))
		case err != nil:
			return err
		default:
			div, err := repo.Divergence(ctx, upstream)
			if err != nil {
				return err
			}
			fmt.Printf("upstream:   %s (ahead %d, behind %d)\n", upstream, div.Ahead, div.Behind)
		}

		dirty, err := repo.IsDirty(ctx)
		if err != nil {
			return err
		}
		if dirty {
			fmt.Printf("worktree:   %s\n", ui.RenderWarn("dirty"))
		} else {
			fmt.Printf("worktree:   %s\n", ui.RenderPass("clean"))
		}

		staged, err := repo.HasStagedChanges(ctx)
		if err != nil {
			return err
		}
		if staged {
			fmt.Printf("staged:     %s\n", ui.RenderWarn("yes (next cycle commits)"))
		} else {
			fmt.Printf("staged:     no\n")
		}

		printLockStatus(cfg, repo.VCSDir())
		return nil
	},
}

// printLockStatus reports the marker's holder and, when the holder ran on
// this host, whether that process is still alive. A dead holder means the
// marker was abandoned and needs operator removal; the daemon never
// removes it on its own.
func printLockStatus(cfg *config.Config, vcsDir string) {
	l := newLock(cfg, vcsDir)

	holder, err := l.ReadHolder()
	if err != nil {
		fmt.Printf("lock:       %s (%v)\n", ui.RenderWarn("unreadable"), err)
		return
	}
	if holder == nil {
		fmt.Printf("lock:       %s\n", ui.RenderPass("free"))
		return
	}

	held := fmt.Sprintf("held by pid %d on %s since %s",
		holder.PID, holder.Hostname, holder.AcquiredAt.Format(time.RFC3339))

	alive, known := holder.Alive()
	switch {
	case known && alive:
		fmt.Printf("lock:       %s\n", held)
	case known:
		fmt.Printf("lock:       %s %s\n", held,
			ui.RenderFail("(holder is dead; remove "+l.Path()+" to recover)"))
	default:
		fmt.Printf("lock:       %s %s\n", held, ui.RenderDim("(liveness unknown)"))
	}
}
