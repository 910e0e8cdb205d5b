// labtrack is a terminal administration client for an academic research
// tracking backend: people, projects, and project results.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"labtrack/internal/api"
	"labtrack/internal/cache"
	"labtrack/internal/config"
	"labtrack/internal/store"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "labtrack",
	Short: "Administer people, projects, and results of a research tracking backend",
	Long: `labtrack mirrors a research tracking backend's people, projects, and
results, and drives the save flows against it: project creation with nested
person associations and pending results, status toggling, and batch deletion.

Configuration comes from an optional YAML file (LABTRACK_CONFIG_PATH) and
LABTRACK_* environment variables; see 'labtrack serve' for the MCP mode.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(personsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired stores for a single command invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	snap     *cache.Snapshot
	client   *api.Client
	persons  *store.PersonStore
	projects *store.ProjectStore
	results  *store.ResultStore
}

// newApp loads configuration and wires the client, snapshot cache, and
// stores. Logs go to stderr so stdout stays clean for command output (and
// for JSON-RPC in stdio serve mode).
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	level := parseLogLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	snap, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		// The cache is an offline convenience; a broken cache file must not
		// take the whole client down.
		logger.Warn("snapshot cache unavailable", "path", cfg.Cache.Path, "error", err)
		snap = nil
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)

	var sink store.Snapshotter
	if snap != nil {
		sink = snap
	}
	persons := store.NewPersonStore(client, sink, logger)
	results := store.NewResultStore(client, sink, logger)
	projects := store.NewProjectStore(client, results, sink, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		snap:     snap,
		client:   client,
		persons:  persons,
		projects: projects,
		results:  results,
	}, nil
}

func (a *app) close() {
	if a.snap != nil {
		a.snap.Close()
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
