package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"opengoal/internal"
	"opengoal/internal/constants"
	"opengoal/internal/fileutil"

	_ "github.com/BrandonKowalski/certifiable"
	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
)

func main() {
	defer cleanup()

	config := setup()

	logger := gaba.GetLogger()
	logger.Debug("Starting OpenGOAL")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := connect(ctx, config)
	defer state.Close()

	if err := runWithRouter(state); err != nil {
		logger.Error("Router error", "error", err)
	}
}

// connect retries until a backend is reachable or the user gives up.
func connect(ctx context.Context, config *internal.Config) *AppState {
	logger := gaba.GetLogger()

	for {
		state, err := newAppState(ctx, config)
		if err == nil {
			return state
		}

		logger.Error("Failed to connect to backend", "address", config.BackendAddress, "error", err)

		if !showStartupError(i18n.Localize(classifyStartupError(err), nil)) {
			logger.Info("User chose to quit after startup error")
			cleanup()
			os.Exit(int(constants.ExitCodeBackendUnavailable))
		}
		logger.Info("User chose to retry connection")
	}
}

func cleanup() {
	if err := os.RemoveAll(fileutil.TempDir()); err != nil {
		gaba.GetLogger().Error("Failed to clean temp directory", "error", err)
	}
	gaba.Close()
}
