package ui

// Action types for each screen.
// Screens set these directly in their output, the router transitions on them.

type PanelAction int

const (
	PanelActionNone PanelAction = iota
	PanelActionInstall
	PanelActionRemove
	PanelActionShortcut
	PanelActionLink
	PanelActionInfo
	PanelActionQuit
)

type InfoAction int

const (
	InfoActionBack InfoAction = iota
	InfoActionClearCache
)

type ClearCacheAction int

const (
	ClearCacheActionCleared ClearCacheAction = iota
	ClearCacheActionCancel
)
