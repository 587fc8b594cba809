// Package host holds the capabilities the panel needs from the device it
// runs on, plus the Steam-backed implementations of them.
package host

import (
	"context"

	"opengoal/steam"
)

// Prompt is a two-button confirmation dialog.
type Prompt struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

type Prompter interface {
	// Confirm blocks until the user answers and reports whether they
	// confirmed.
	Confirm(ctx context.Context, p Prompt) bool
}

type ArtworkSetter interface {
	SetArtwork(ctx context.Context, shortcutID int64, payload string, format string, slot steam.ArtworkSlot) error
}

type Restarter interface {
	Restart(ctx context.Context) error
}

type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

type UserResolver interface {
	CurrentUser(ctx context.Context) (steam.AccountID, error)
}
