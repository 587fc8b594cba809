package main

import (
	"opengoal/ui"

	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/router"
)

type linkInput struct {
	URL string
}

type linkOutput struct{}

func runWithRouter(state *AppState) error {
	r := buildRouter(state)

	return r.Run(ScreenLoading, ui.LoadingInput{
		Context: state.Ctx,
		Panel:   state.Panel,
	})
}

func buildRouter(state *AppState) *router.Router {
	r := router.New()

	registerScreens(r, state)
	r.OnTransition(buildTransitionFunc(state))

	return r
}

func registerScreens(r *router.Router, state *AppState) {
	r.Register(ScreenLoading, func(input any) (any, error) {
		state.startReleaseWatch()

		screen := ui.NewLoadingScreen()
		return screen.Draw(input.(ui.LoadingInput))
	})

	r.Register(ScreenPanel, func(input any) (any, error) {
		screen := ui.NewPanelScreen()
		return screen.Draw(input.(ui.PanelInput))
	})

	r.Register(ScreenInstall, func(input any) (any, error) {
		screen := ui.NewInstallScreen()
		return screen.Draw(input.(ui.InstallInput))
	})

	r.Register(ScreenRemove, func(input any) (any, error) {
		screen := ui.NewRemoveScreen()
		return screen.Draw(input.(ui.GameActionInput))
	})

	r.Register(ScreenShortcut, func(input any) (any, error) {
		screen := ui.NewShortcutScreen()
		return screen.Draw(input.(ui.GameActionInput))
	})

	r.Register(ScreenLink, func(input any) (any, error) {
		in := input.(linkInput)
		// Navigation errors are logged by the panel and leave it usable.
		state.Panel.OpenLink(state.Ctx, in.URL)
		return linkOutput{}, nil
	})

	r.Register(ScreenInfo, func(input any) (any, error) {
		screen := ui.NewInfoScreen()
		return screen.Draw(input.(ui.InfoInput))
	})

	r.Register(ScreenClearCache, func(input any) (any, error) {
		screen := ui.NewClearCacheScreen()
		return screen.Draw(input.(ui.ClearCacheInput))
	})
}
