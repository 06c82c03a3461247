package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/gitsyncd/internal/engine"
	"github.com/mschirtzinger/gitsyncd/internal/ui"
	"github.com/mschirtzinger/gitsyncd/internal/vcs/git"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run exactly one sync cycle and exit",
	Long: `Run one full sync cycle (lock, upload, download, unlock) and exit.
Useful from cron or by hand after resolving a conflict the daemon
reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		setupLogging(cfg)

		repo, err := git.Open(cfg.RepoPath)
		if err != nil {
			return err
		}

		e := engine.New(repo, newLock(cfg, repo.VCSDir()), cfg, slog.Default())

		// A signal cancels the in-flight operations; the cycle's
		// deferred lock release still runs before we return.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := e.RunCycle(ctx, ctx)
		if err != nil {
			return err
		}

		printCycleReport(report)
		if report.Failed() {
			return fmt.Errorf("sync cycle completed with errors")
		}
		return nil
	},
}

func printCycleReport(report *engine.CycleReport) {
	switch {
	case report.UploadErr != nil:
		fmt.Printf("%s upload: %v\n", ui.RenderFail("✗"), report.UploadErr)
	case report.Upload.Pushed:
		fmt.Printf("%s upload: pushed %s\n", ui.RenderPass("✓"), ui.RenderAccent(report.Upload.Branch))
	case report.Upload.Committed:
		fmt.Printf("%s upload: committed but not pushed\n", ui.RenderWarn("⚠"))
	default:
		fmt.Printf("%s upload: nothing to do\n", ui.RenderDim("·"))
	}

	switch {
	case report.DownloadErr != nil:
		fmt.Printf("%s download: %v\n", ui.RenderFail("✗"), report.DownloadErr)
	case report.Download.FastForwarded > 0:
		fmt.Printf("%s download: fast-forwarded %d commit(s)\n", ui.RenderPass("✓"), report.Download.FastForwarded)
	default:
		fmt.Printf("%s download: nothing to do\n", ui.RenderDim("·"))
	}

	if report.Download.Stashed && !report.Download.StashRestored {
		fmt.Printf("%s a stash was left behind; inspect with `git stash list`\n", ui.RenderWarn("⚠"))
	}

	fmt.Printf("%s cycle took %v\n", ui.RenderDim("·"), report.Finished.Sub(report.Started).Round(time.Millisecond))
}
