package main

import (
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/router"
)

// Screen identifiers for the router
type Screen = router.Screen

const (
	ScreenLoading Screen = iota
	ScreenPanel
	ScreenInstall
	ScreenRemove
	ScreenShortcut
	ScreenLink
	ScreenInfo
	ScreenClearCache
)
