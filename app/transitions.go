package main

import (
	"opengoal/ui"

	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/router"
)

type transitionContext struct {
	state *AppState
	stack *router.Stack
}

func buildTransitionFunc(state *AppState) router.TransitionFunc {
	return func(from router.Screen, result any, stack *router.Stack) (router.Screen, any) {
		ctx := &transitionContext{
			state: state,
			stack: stack,
		}

		switch from {
		case ScreenLoading:
			return ScreenPanel, ui.PanelInput{Panel: state.Panel}
		case ScreenPanel:
			return transitionPanel(ctx, result)
		case ScreenInfo:
			return transitionInfo(ctx, result)
		case ScreenInstall, ScreenRemove, ScreenShortcut, ScreenLink, ScreenClearCache:
			return popOrExit(ctx)
		}

		return router.ScreenExit, nil
	}
}

func transitionPanel(ctx *transitionContext, result any) (router.Screen, any) {
	r := result.(ui.PanelOutput)
	state := ctx.state

	pushInput := ui.PanelInput{
		Panel:                 state.Panel,
		LastSelectedIndex:     r.LastSelectedIndex,
		LastVisibleStartIndex: r.LastVisibleStartIndex,
	}

	switch r.Action {
	case ui.PanelActionNone:
		return ScreenPanel, pushInput

	case ui.PanelActionInstall:
		ctx.stack.Push(ScreenPanel, pushInput, r)
		return ScreenInstall, ui.InstallInput{
			Context:  state.Ctx,
			Panel:    state.Panel,
			GameID:   r.GameID,
			Progress: state.progress(),
		}

	case ui.PanelActionRemove:
		ctx.stack.Push(ScreenPanel, pushInput, r)
		return ScreenRemove, ui.GameActionInput{Context: state.Ctx, Panel: state.Panel, GameID: r.GameID}

	case ui.PanelActionShortcut:
		ctx.stack.Push(ScreenPanel, pushInput, r)
		return ScreenShortcut, ui.GameActionInput{Context: state.Ctx, Panel: state.Panel, GameID: r.GameID}

	case ui.PanelActionLink:
		ctx.stack.Push(ScreenPanel, pushInput, r)
		return ScreenLink, linkInput{URL: r.URL}

	case ui.PanelActionInfo:
		ctx.stack.Push(ScreenPanel, pushInput, r)
		return ScreenInfo, state.infoInput()

	case ui.PanelActionQuit:
		return router.ScreenExit, nil
	}

	return router.ScreenExit, nil
}

func transitionInfo(ctx *transitionContext, result any) (router.Screen, any) {
	r := result.(ui.InfoOutput)

	if r.Action == ui.InfoActionClearCache {
		ctx.stack.Push(ScreenInfo, ctx.state.infoInput(), r)
		return ScreenClearCache, ui.ClearCacheInput{Cache: ctx.state.Cache}
	}

	return popOrExit(ctx)
}

func popOrExit(ctx *transitionContext) (router.Screen, any) {
	entry := ctx.stack.Pop()
	if entry == nil {
		return router.ScreenExit, nil
	}

	if _, ok := entry.Input.(ui.InfoInput); ok {
		// Rebuilt so the cache counters reflect a clear.
		return entry.Screen, ctx.state.infoInput()
	}

	return entry.Screen, entry.Input
}
