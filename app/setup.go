package main

import (
	"errors"
	"log"
	"log/slog"
	"os"

	"opengoal/internal"
	"opengoal/internal/environment"
	"opengoal/resources"
	"opengoal/rpc"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

func setup() *internal.Config {
	gaba.SetLogFilename("opengoal.log")

	gaba.Init(gaba.Options{
		WindowTitle:          "OpenGOAL",
		PrimaryThemeColorHex: 0xE8A33D,
		ShowBackground:       true,
	})

	gaba.SetLogLevel(slog.LevelDebug)
	logger := gaba.GetLogger()

	localeFiles, err := resources.GetLocaleMessageFiles()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to load locale files: %v", err)
	}
	if err := i18n.InitI18NFromBytes(localeFiles); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to initialize i18n: %v", err)
	}

	config, err := internal.LoadConfig()
	if err != nil {
		logger.Debug("No configuration found, writing defaults", "error", err)
		config = internal.DefaultConfig()
		if err := internal.WriteConfig(internal.ConfigFile, config); err != nil {
			logger.Error("Unable to write default configuration", "error", err)
		}
	}

	if environment.IsDevelopment() {
		gaba.SetRawLogLevel(string(internal.LogLevelDebug))
	} else if config.LogLevel != "" {
		gaba.SetRawLogLevel(string(config.LogLevel))
	}

	if err := i18n.SetWithCode(config.Language); err != nil {
		logger.Error("Failed to set language", "error", err, "language", config.Language)
	}

	logger.Debug("Configuration Loaded!", "config", config.ToLoggable())
	return config
}

func classifyStartupError(err error) *goi18n.Message {
	switch {
	case errors.Is(err, rpc.ErrUnavailable):
		return &goi18n.Message{ID: "startup_error_backend", Other: "Could not reach the OpenGOAL backend!\nPlease check it is running."}
	default:
		return &goi18n.Message{ID: "startup_error_generic", Other: "Could not start!\nPlease check the logs for more info."}
	}
}

func showStartupError(errorMsg string) bool {
	footerItems := []gaba.FooterHelpItem{
		{ButtonName: "B", HelpText: i18n.Localize(&goi18n.Message{ID: "startup_error_action_exit", Other: "Exit"}, nil)},
		{ButtonName: "A", HelpText: i18n.Localize(&goi18n.Message{ID: "startup_error_action_retry", Other: "Retry Connection"}, nil)},
	}

	result, err := gaba.ConfirmationMessage(errorMsg, footerItems, gaba.MessageOptions{})

	return err == nil && result != nil && result.Confirmed
}
