package host

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path/filepath"

	"opengoal/internal/imageutil"
	"opengoal/steam"

	"github.com/spf13/afero"
)

// Largest artwork Steam displays per slot; bigger images are scaled down.
var slotBounds = map[steam.ArtworkSlot][2]int{
	steam.SlotCapsule:     {600, 900},
	steam.SlotWideCapsule: {920, 430},
	steam.SlotHero:        {3840, 1240},
	steam.SlotLogo:        {1280, 720},
}

// GridArtworkSetter writes artwork into the current user's Steam grid
// directory, where Steam picks it up on the next start.
type GridArtworkSetter struct {
	fs     afero.Fs
	paths  steam.Paths
	users  UserResolver
	logger *slog.Logger
}

func NewGridArtworkSetter(fs afero.Fs, paths steam.Paths, users UserResolver, logger *slog.Logger) *GridArtworkSetter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GridArtworkSetter{fs: fs, paths: paths, users: users, logger: logger}
}

func (g *GridArtworkSetter) SetArtwork(ctx context.Context, shortcutID int64, payload string, format string, slot steam.ArtworkSlot) error {
	if !slot.Valid() {
		return fmt.Errorf("invalid artwork slot %d", slot)
	}

	owner, err := g.users.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("resolving steam user: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("decoding %s artwork: %w", slot, err)
	}

	bounds := slotBounds[slot]
	data, err := imageutil.NormalizeArtwork(raw, bounds[0], bounds[1])
	if err != nil {
		g.logger.Warn("Artwork could not be normalized, writing as is", "slot", slot, "format", format, "error", err)
		data = raw
	} else {
		format = "png"
	}

	name, err := steam.GridFileName(int32(shortcutID), slot, format)
	if err != nil {
		return err
	}

	dir := g.paths.GridDir(owner)
	if err := g.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := afero.WriteFile(g.fs, path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	g.logger.Debug("Wrote artwork", "slot", slot, "path", path)
	return nil
}
