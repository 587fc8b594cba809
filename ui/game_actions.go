package ui

import (
	"context"
	"errors"

	"opengoal/panel"
	"opengoal/rpc"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
)

type GameActionInput struct {
	Context context.Context
	Panel   *panel.Panel
	GameID  string
}

type GameActionOutput struct {
	Done bool
}

// RemoveScreen runs the removal flow. The confirmation dialog is drawn by
// the panel's prompter.
type RemoveScreen struct{}

func NewRemoveScreen() *RemoveScreen {
	return &RemoveScreen{}
}

func (s *RemoveScreen) Draw(input GameActionInput) (GameActionOutput, error) {
	err := input.Panel.Remove(contextOf(input.Context), input.GameID)
	return actionOutput("Remove", input.GameID, err)
}

// ShortcutScreen creates the library shortcut. Artwork and the restart
// prompt are handled by the panel.
type ShortcutScreen struct{}

func NewShortcutScreen() *ShortcutScreen {
	return &ShortcutScreen{}
}

func (s *ShortcutScreen) Draw(input GameActionInput) (GameActionOutput, error) {
	result, err := input.Panel.CreateShortcut(contextOf(input.Context), input.GameID)
	if err == nil && len(result.Skipped) > 0 {
		gaba.GetLogger().Info("Shortcut created without some artwork", "game", input.GameID, "skipped", result.Skipped)
	}
	return actionOutput("Create shortcut", input.GameID, err)
}

func actionOutput(action, game string, err error) (GameActionOutput, error) {
	switch {
	case err == nil:
		return GameActionOutput{Done: true}, nil
	case errors.Is(err, panel.ErrCancelled), errors.Is(err, panel.ErrActionDisabled):
		return GameActionOutput{}, nil
	case errors.Is(err, rpc.ErrUnavailable):
		showMessage(backendUnavailableText())
	}
	gaba.GetLogger().Error(action+" failed", "game", game, "error", err)
	return GameActionOutput{}, nil
}

func contextOf(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
