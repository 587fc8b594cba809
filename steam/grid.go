package steam

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ArtworkSlot mirrors the asset type numbering of the Steam client.
type ArtworkSlot int

const (
	SlotCapsule     ArtworkSlot = 0
	SlotHero        ArtworkSlot = 1
	SlotLogo        ArtworkSlot = 2
	SlotWideCapsule ArtworkSlot = 3
)

func (s ArtworkSlot) String() string {
	switch s {
	case SlotCapsule:
		return "capsule"
	case SlotHero:
		return "hero"
	case SlotLogo:
		return "logo"
	case SlotWideCapsule:
		return "wide_capsule"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

func (s ArtworkSlot) Valid() bool {
	return s >= SlotCapsule && s <= SlotWideCapsule
}

// GridFileName returns the file name Steam looks up in userdata/<id>/config/grid.
func GridFileName(appID int32, slot ArtworkSlot, format string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(format), ".")
	if ext == "" {
		ext = "png"
	}
	id := GridID(appID)

	switch slot {
	case SlotCapsule:
		return fmt.Sprintf("%dp.%s", id, ext), nil
	case SlotHero:
		return fmt.Sprintf("%d_hero.%s", id, ext), nil
	case SlotLogo:
		return fmt.Sprintf("%d_logo.%s", id, ext), nil
	case SlotWideCapsule:
		return fmt.Sprintf("%d.%s", id, ext), nil
	default:
		return "", fmt.Errorf("unknown artwork slot %d", int(slot))
	}
}

// Paths locates the files of a Steam installation.
type Paths struct {
	Root string
}

func PathsForHome(home string) Paths {
	return Paths{Root: filepath.Join(home, ".local", "share", "Steam")}
}

func (p Paths) UserData() string {
	return filepath.Join(p.Root, "userdata")
}

func (p Paths) UserConfig(id AccountID) string {
	return filepath.Join(p.UserData(), id.String(), "config")
}

func (p Paths) ShortcutsFile(id AccountID) string {
	return filepath.Join(p.UserConfig(id), "shortcuts.vdf")
}

func (p Paths) GridDir(id AccountID) string {
	return filepath.Join(p.UserConfig(id), "grid")
}

func (p Paths) LoginUsers() string {
	return filepath.Join(p.Root, "config", "loginusers.vdf")
}
