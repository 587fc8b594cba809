package panel

import (
	"opengoal/rpc"
	"opengoal/steam"
)

type LoadState int

const (
	Loading LoadState = iota
	Ready
)

func (s LoadState) String() string {
	if s == Ready {
		return "ready"
	}
	return "loading"
}

// GameEntry is the panel's view of one tracked title.
type GameEntry struct {
	ID             string
	Title          string
	Installed      bool
	ISOAvailable   bool
	OutOfDate      bool
	Installing     bool
	ShortcutExists bool

	CreatingShortcut bool
	// LastFailure is the most recent failed call made for this entry. It is
	// diagnostic only and never changes what actions are enabled.
	LastFailure *rpc.Failure
}

// CanInstall reports whether the install/update button is enabled.
func (e GameEntry) CanInstall() bool {
	return !e.Installing && e.ISOAvailable && (!e.Installed || e.OutOfDate)
}

func (e GameEntry) CanRemove() bool {
	return e.Installed && !e.Installing
}

func (e GameEntry) CanCreateShortcut() bool {
	return !e.ShortcutExists && !e.CreatingShortcut
}

// InstallMethod is the backend operation the install button triggers.
func (e GameEntry) InstallMethod() string {
	if e.OutOfDate {
		return rpc.MethodUpdateGame
	}
	return rpc.MethodInstallGame
}

// UserContext identifies the Steam account shortcuts are created for.
type UserContext struct {
	ID    steam.AccountID
	Known bool
}

func (u UserContext) Widened() uint64 {
	return u.ID.Steam64()
}
