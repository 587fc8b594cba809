package host

import (
	"context"

	"opengoal/steam"

	"github.com/spf13/afero"
)

// SteamUserResolver returns the configured account, or the most recently
// logged in Steam account when none is configured.
type SteamUserResolver struct {
	fs       afero.Fs
	paths    steam.Paths
	override steam.AccountID
}

func NewSteamUserResolver(fs afero.Fs, paths steam.Paths, override uint32) *SteamUserResolver {
	return &SteamUserResolver{fs: fs, paths: paths, override: steam.AccountID(override)}
}

func (r *SteamUserResolver) CurrentUser(ctx context.Context) (steam.AccountID, error) {
	if r.override != 0 {
		return r.override, nil
	}
	return steam.MostRecentUser(r.fs, r.paths)
}
