package host

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"

	"opengoal/steam"

	"github.com/spf13/afero"
)

type staticUser struct {
	id  steam.AccountID
	err error
}

func (s staticUser) CurrentUser(ctx context.Context) (steam.AccountID, error) {
	return s.id, s.err
}

func pngPayload(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestGridArtworkSetter(t *testing.T) {
	const appID = int64(-102815830)
	gridDir := "/home/deck/.local/share/Steam/userdata/52079950/config/grid/"

	tests := []struct {
		slot steam.ArtworkSlot
		file string
	}{
		{steam.SlotCapsule, "4192151466p.png"},
		{steam.SlotHero, "4192151466_hero.png"},
		{steam.SlotLogo, "4192151466_logo.png"},
		{steam.SlotWideCapsule, "4192151466.png"},
	}

	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			setter := NewGridArtworkSetter(fs, steam.PathsForHome("/home/deck"), staticUser{id: 52079950}, nil)

			if err := setter.SetArtwork(context.Background(), appID, pngPayload(t, 16, 16), "png", tt.slot); err != nil {
				t.Fatalf("SetArtwork: %v", err)
			}
			if ok, _ := afero.Exists(fs, gridDir+tt.file); !ok {
				t.Errorf("%s not written", tt.file)
			}
		})
	}
}

func TestGridArtworkSetterScalesLargeImages(t *testing.T) {
	fs := afero.NewMemMapFs()
	setter := NewGridArtworkSetter(fs, steam.PathsForHome("/home/deck"), staticUser{id: 52079950}, nil)

	if err := setter.SetArtwork(context.Background(), -102815830, pngPayload(t, 1840, 860), "png", steam.SlotWideCapsule); err != nil {
		t.Fatalf("SetArtwork: %v", err)
	}

	data, err := afero.ReadFile(fs, "/home/deck/.local/share/Steam/userdata/52079950/config/grid/4192151466.png")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 920 || cfg.Height != 430 {
		t.Errorf("size = %dx%d, want 920x430", cfg.Width, cfg.Height)
	}
}

func TestGridArtworkSetterErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := steam.PathsForHome("/home/deck")
	ctx := context.Background()

	noUser := NewGridArtworkSetter(fs, paths, staticUser{err: steam.ErrNoLoggedInUser}, nil)
	if err := noUser.SetArtwork(ctx, 1, pngPayload(t, 1, 1), "png", steam.SlotHero); !errors.Is(err, steam.ErrNoLoggedInUser) {
		t.Errorf("SetArtwork without user = %v", err)
	}

	setter := NewGridArtworkSetter(fs, paths, staticUser{id: 1}, nil)
	if err := setter.SetArtwork(ctx, 1, "%%%not base64", "png", steam.SlotHero); err == nil {
		t.Error("expected error for invalid base64")
	}
	if err := setter.SetArtwork(ctx, 1, pngPayload(t, 1, 1), "png", steam.ArtworkSlot(7)); err == nil {
		t.Error("expected error for invalid slot")
	}
}

func TestSteamUserResolver(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := steam.PathsForHome("/home/deck")
	afero.WriteFile(fs, paths.LoginUsers(), []byte("\"users\"\n{\n\t\"76561198012345678\"\n\t{\n\t\t\"MostRecent\"\t\t\"1\"\n\t}\n}\n"), 0644)

	tests := []struct {
		desc     string
		override uint32
		want     steam.AccountID
	}{
		{"from loginusers", 0, 52079950},
		{"configured", 1234, 1234},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := NewSteamUserResolver(fs, paths, tt.override).CurrentUser(context.Background())
			if err != nil || got != tt.want {
				t.Errorf("CurrentUser = %d, %v, want %d", got, err, tt.want)
			}
		})
	}

	if _, err := NewSteamUserResolver(afero.NewMemMapFs(), paths, 0).CurrentUser(context.Background()); err == nil {
		t.Error("expected error without loginusers.vdf")
	}
}

func TestCommandRestarter(t *testing.T) {
	var ran []string
	restarted := false

	r := NewCommandRestarter([]string{"steam", "-shutdown"}, func() { restarted = true }, nil)
	r.run = func(ctx context.Context, name string, args ...string) error {
		ran = append([]string{name}, args...)
		return nil
	}

	if err := r.Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if len(ran) != 2 || ran[0] != "steam" || ran[1] != "-shutdown" {
		t.Errorf("ran %v", ran)
	}
	if !restarted {
		t.Error("AfterRestart not called")
	}

	failing := NewCommandRestarter([]string{"steam"}, func() { t.Error("AfterRestart called after failure") }, nil)
	failing.run = func(ctx context.Context, name string, args ...string) error { return errors.New("exit 1") }
	if err := failing.Restart(context.Background()); err == nil {
		t.Error("expected error from failing command")
	}

	if err := NewCommandRestarter(nil, nil, nil).Restart(context.Background()); !errors.Is(err, ErrNoRestartCommand) {
		t.Errorf("Restart without command = %v", err)
	}
}
