package ui

import (
	"context"

	"opengoal/panel"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

type LoadingInput struct {
	Context context.Context
	Panel   *panel.Panel
}

type LoadingOutput struct {
	State panel.LoadState
}

type LoadingScreen struct{}

func NewLoadingScreen() *LoadingScreen {
	return &LoadingScreen{}
}

// Draw shows the loading notice while the panel runs its status queries.
func (s *LoadingScreen) Draw(input LoadingInput) (LoadingOutput, error) {
	ctx := contextOf(input.Context)

	_, err := gaba.ProcessMessage(
		i18n.Localize(&goi18n.Message{ID: "panel_loading", Other: panel.LoadingMessage()}, nil),
		gaba.ProcessMessageOptions{
			ShowThemeBackground: true,
		},
		func() (interface{}, error) {
			input.Panel.Load(ctx)
			return nil, nil
		},
	)
	if err != nil {
		gaba.GetLogger().Error("Loading screen error", "error", err)
	}

	return LoadingOutput{State: input.Panel.State()}, err
}
