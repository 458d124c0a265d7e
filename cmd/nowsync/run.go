package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nowsync/nowsync/internal/config"
	"github.com/nowsync/nowsync/internal/gitrepo"
	"github.com/nowsync/nowsync/internal/lastfm"
	"github.com/nowsync/nowsync/internal/poller"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the polling daemon",
	Long: `Polls Last.fm on a fixed interval, compares the current track against the
last published one, and on change rewrites the README's now-playing block,
amends the tip commit, and force-pushes.

Identity comes from LASTFM_API_KEY and LASTFM_USERNAME (or a .env file, or
--config). The repository must already exist with a configured remote; this
process assumes it is the sole writer of the branch.`,
	RunE: runDaemonCmd,
}

var (
	runConfigPath string
	runRepoPath   string
	runReadme     string
	runInterval   time.Duration
	runTimezone   string
	runOnce       bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringVarP(&runRepoPath, "repo", "r", "", "Path to the local git repository (defaults to REPO_PATH env var, then \".\")")
	runCommand.Flags().StringVar(&runReadme, "readme", "", "Repo-relative document file name (default README.md)")
	runCommand.Flags().DurationVar(&runInterval, "interval", 0, "Delay between poll cycles (default 60s)")
	runCommand.Flags().StringVar(&runTimezone, "timezone", "", "IANA timezone for rendered timestamps (default local)")
	runCommand.Flags().BoolVar(&runOnce, "once", false, "Run a single poll cycle and exit (non-zero when the cycle fails)")

	rootCmd.AddCommand(runCommand)
}

// buildConfig merges flags over the config file over the environment,
// then applies defaults and validates.
func buildConfig(configPath string) (*config.Config, error) {
	cfg := config.Config{
		RepoPath:   runRepoPath,
		ReadmeFile: runReadme,
		Interval:   runInterval,
		Timezone:   runTimezone,
	}

	if configPath != "" {
		fileCfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runDaemonCmd(_ *cobra.Command, _ []string) error {
	cfg, err := buildConfig(runConfigPath)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey: cfg.APIKey,
		User:   cfg.Username,
	})
	if err != nil {
		return err
	}

	p, err := poller.New(poller.Config{
		ReadmePath: cfg.ReadmePath(),
		ReadmeFile: cfg.ReadmeFile,
		Interval:   cfg.Interval,
		Location:   loc,
	}, client, gitrepo.New(cfg.RepoPath))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runOnce {
		if !p.RunOnce(ctx) {
			return errors.New("poll cycle failed; see log output")
		}
		return nil
	}

	log.Printf("INFO polling Last.fm as %s every %s (repo %s)", cfg.Username, cfg.Interval, cfg.RepoPath)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Printf("INFO shutting down")
	return nil
}
