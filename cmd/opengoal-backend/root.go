package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"opengoal/backend"
	"opengoal/cache"
	"opengoal/internal"

	"github.com/spf13/cobra"
)

var (
	configPath string
	homeDir    string
	verbose    bool

	logger *slog.Logger
	config *internal.Config
)

var rootCmd = &cobra.Command{
	Use:           "opengoal-backend",
	Short:         "Manage OpenGOAL installs on a handheld",
	Long:          "Installs, updates and removes OpenGOAL games, creates their Steam shortcuts, and serves the panel backend over a websocket.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		loaded, err := internal.LoadConfigFrom(configPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading %s: %w", configPath, err)
			}
			logger.Debug("No configuration found, using defaults", "path", configPath)
			loaded = internal.DefaultConfig()
		}
		if cmd.Flags().Changed("home") {
			loaded.HomeDir = homeDir
		}
		config = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			_ = rootCmd.Usage()
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return wrapUsageError(err)
	})

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", internal.ConfigFile, "Path to config.json")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", internal.DefaultHomeDir, "Home directory holding OpenGOAL and Steam")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// newService builds the backend the subcommands operate on. The returned
// close func releases the release cache.
func newService() (*backend.Service, func(), error) {
	cm, err := cache.NewManager(cache.DefaultPath(), logger)
	if err != nil {
		logger.Warn("Release cache unavailable", "error", err)
	}

	client := backend.NewReleaseClient(config, logger)
	releases := backend.NewCachedReleases(client, cm, config.ReleaseCacheTTL, logger).
		WithChannel(config.ReleaseChannel)

	service := backend.NewServiceFromConfig(config, releases, client, logger)
	if err := service.Migrate(); err != nil {
		cm.Close()
		return nil, nil, err
	}

	return service, func() { cm.Close() }, nil
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func wrapUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return wrapUsageError(err)
		}
		return nil
	}
}

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}
	return strings.HasPrefix(err.Error(), "unknown command ")
}
