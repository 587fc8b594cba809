package ui

import (
	"context"
	"errors"

	"opengoal/panel"
	"opengoal/rpc"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/atomic"
)

// ProgressFunc returns the live progress of an install, or nil when it is
// not observable (a remote backend).
type ProgressFunc func(game string) *atomic.Float64

type InstallInput struct {
	Context  context.Context
	Panel    *panel.Panel
	GameID   string
	Progress ProgressFunc
}

type InstallOutput struct {
	Installed bool
}

type InstallScreen struct{}

func NewInstallScreen() *InstallScreen {
	return &InstallScreen{}
}

func (s *InstallScreen) Draw(input InstallInput) (InstallOutput, error) {
	logger := gaba.GetLogger()
	output := InstallOutput{}

	ctx := contextOf(input.Context)

	entry, ok := input.Panel.Entry(input.GameID)
	if !ok {
		return output, panel.ErrUnknownGame
	}

	message := i18n.Localize(&goi18n.Message{ID: "install_installing", Other: "Installing {{.Title}}..."}, map[string]interface{}{"Title": entry.Title})
	if entry.OutOfDate {
		message = i18n.Localize(&goi18n.Message{ID: "install_updating", Other: "Updating {{.Title}}..."}, map[string]interface{}{"Title": entry.Title})
	}

	options := gaba.ProcessMessageOptions{ShowThemeBackground: true}
	if input.Progress != nil {
		if progress := input.Progress(input.GameID); progress != nil {
			options.ShowProgressBar = true
			options.Progress = progress
		}
	}

	var installErr error
	_, err := gaba.ProcessMessage(message, options, func() (interface{}, error) {
		installErr = input.Panel.InstallOrUpdate(ctx, input.GameID)
		return nil, installErr
	})

	if installErr == nil && err != nil {
		logger.Error("Install screen error", "error", err)
		return output, err
	}

	if installErr != nil {
		logger.Error("Install failed", "game", input.GameID, "error", installErr)
		if errors.Is(installErr, rpc.ErrUnavailable) {
			showMessage(backendUnavailableText())
		}
		return output, nil
	}

	output.Installed = true
	return output, nil
}

func backendUnavailableText() string {
	return i18n.Localize(&goi18n.Message{ID: "backend_unavailable", Other: "The backend is not responding!\nYou may have to restart your device."}, nil)
}
