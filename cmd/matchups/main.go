// Package main provides the entry point for the matchup pages server and CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/matchups/internal/config"
	"github.com/yourusername/matchups/internal/datasource"
	"github.com/yourusername/matchups/internal/logger"
	"github.com/yourusername/matchups/internal/metrics"
	"github.com/yourusername/matchups/internal/models"
	"github.com/yourusername/matchups/internal/scheduler"
	"github.com/yourusername/matchups/internal/server"
	"github.com/yourusername/matchups/internal/service"
	"github.com/yourusername/matchups/internal/views"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logOutput  io.Writer = os.Stderr
	cfg        *config.Config
	appLog     *logrus.Logger
	source     datasource.MatchupSource
	matchups   *service.MatchupService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.AddCommand(serveCmd, renderCmd, playersCmd, validateCmd)
}

var rootCmd = &cobra.Command{
	Use:           "matchups",
	Short:         "Player head-to-head matchup pages",
	Long:          `Serves and renders HTML pages listing players and their win-loss records against each opponent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Flags().Changed("config")); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [name]",
	Short: "Print the page for a player, or the player index, to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, hasName := "", false
		if len(args) == 1 {
			name, hasName = args[0], true
		}
		return renderPage(cmd.Context(), cmd.OutOrStdout(), name, hasName)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Print every player name, one per line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		players, err := matchups.ListPlayers(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range players {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report suspicious entries in the matchup document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		findings, err := matchups.ValidateData(cmd.Context())
		if err != nil {
			return err
		}
		for _, finding := range findings {
			fmt.Fprintln(cmd.OutOrStdout(), finding)
		}
		if len(findings) > 0 {
			return fmt.Errorf("%d validation findings", len(findings))
		}
		return nil
	},
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the command line and returns the process exit status
func execute(args []string) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		return 1
	}
	return 0
}

// loadConfig reads the configuration. A file named on the command line must
// exist; the default path may be absent.
func loadConfig(explicit bool) error {
	var err error
	if explicit {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadWithDefaults(configFile)
	}
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment, logOutput)

	var err error
	source, err = datasource.NewFactory(cfg, appLog).Create()
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	matchups = service.NewMatchupService(source, appLog)
	return nil
}

// renderPage writes the same page the HTTP handler would serve
func renderPage(ctx context.Context, w io.Writer, name string, hasName bool) error {
	renderer := views.NewRenderer(server.RenderOptions(cfg))

	var component templ.Component
	if !hasName && cfg.Render.ShowIndexPage {
		players, err := matchups.ListPlayers(ctx)
		if err != nil {
			return err
		}
		component = renderer.PlayerIndex(views.NewPlayerIndexData(players))
	} else {
		_, summary, err := matchups.PlayerDetail(ctx, name)
		switch {
		case errors.Is(err, models.ErrPlayerNotFound):
			component = renderer.PlayerNotFound()
		case err != nil:
			return err
		default:
			component = renderer.PlayerDetail(views.NewPlayerDetailData(*summary))
		}
	}

	return component.Render(ctx, w)
}

func serve() error {
	appLog.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
		"config":  cfg.String(),
	}).Info("Starting matchups server")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	cached, _ := source.(*datasource.CachedSource)

	var sched *scheduler.Scheduler
	if cached != nil && cfg.Cache.RefreshSchedule != "" {
		sched = scheduler.NewScheduler(cached, appLog)
		if err := sched.ScheduleCacheRefresh(cfg.Cache.RefreshSchedule); err != nil {
			return err
		}
		sched.RunRefresh()
		if err := sched.Start(); err != nil {
			return err
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Cache refresh scheduled")
	}

	srv := server.NewServer(server.Options{
		Version:  Version,
		Commit:   GitCommit,
		Config:   cfg,
		Matchups: matchups,
		Logger:   appLog,
	})
	if err := srv.Start(); err != nil {
		return err
	}

	sig := waitForShutdown(sigChan, cached)
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	if sched != nil {
		sched.Stop()
	}

	start := time.Now()
	if err := srv.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during server shutdown")
	}
	closeSource()

	appLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Matchups server shut down")
	return nil
}

// waitForShutdown blocks until a terminating signal arrives. SIGHUP drops
// the cached table so the next request rereads the document.
func waitForShutdown(signals <-chan os.Signal, cached *datasource.CachedSource) os.Signal {
	for sig := range signals {
		if sig != syscall.SIGHUP {
			return sig
		}
		if cached == nil {
			appLog.Info("SIGHUP ignored, caching is disabled")
			continue
		}
		cached.Invalidate("sighup")
	}
	return nil
}

// closeSource releases connections held by the data source
func closeSource() {
	closer, ok := source.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		appLog.WithError(err).Warn("Failed to close data source")
	}
}
