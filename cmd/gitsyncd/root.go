package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mschirtzinger/gitsyncd/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "gitsyncd",
	Short: "Unattended bidirectional sync daemon for a git clone",
	Long: `gitsyncd keeps a local git working copy and its upstream consistent
without user intervention: local edits are committed and pushed with a
CI loop-prevention marker, remote advances are integrated fast-forward
only, and uncommitted work is stashed around the integration. A
filesystem lock marker serializes cycles, including across processes.

Conflicts are surfaced, never auto-resolved: a diverged history or a
conflicted stash restore is logged every cycle until a human reconciles
it.`,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("repo", "r", ".", "Repository working directory to synchronize")
	flags.String("remote", config.DefaultRemote, "Remote to fetch from and push to")
	flags.DurationP("interval", "i", config.DefaultInterval, "Wait between sync cycles")
	flags.String("lock-dir", "", "Sync lock marker directory (default: <repo>/.git/gitsyncd)")
	flags.Duration("lock-max-wait", 0, "Give up lock acquisition after this long (0 waits forever)")
	flags.String("commit-prefix", config.DefaultCommitPrefix, "Prefix tag for automated commit messages")
	flags.BoolP("watch", "w", false, "Trigger cycles on filesystem events in addition to the interval")
	flags.Duration("debounce", config.DefaultDebounce, "Quiet period before a filesystem event triggers a cycle")
	flags.String("log-file", "", "Write logs to this rotating file instead of stderr")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("config", "", "Config file (yaml/toml/json)")
}

// loadConfig resolves flags, GITSYNCD_* environment variables, and the
// optional config file into a validated Config. Resolution happens once;
// nothing is re-read at runtime.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GITSYNCD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := config.New()
	cfg.RepoPath = v.GetString("repo")
	cfg.Remote = v.GetString("remote")
	cfg.Interval = v.GetDuration("interval")
	cfg.LockDir = v.GetString("lock-dir")
	cfg.LockMaxWait = v.GetDuration("lock-max-wait")
	cfg.CommitPrefix = v.GetString("commit-prefix")
	cfg.Watch = v.GetBool("watch")
	cfg.Debounce = v.GetDuration("debounce")
	cfg.LogFile = v.GetString("log-file")
	cfg.Verbose = v.GetBool("verbose")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the process-wide slog handler: tinted output on a
// TTY, plain text otherwise, and a rotating file when --log-file is set.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	switch {
	case cfg.LogFile != "":
		handler = slog.NewTextHandler(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}, &slog.HandlerOptions{Level: level})
	case isatty.IsTerminal(os.Stderr.Fd()):
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
