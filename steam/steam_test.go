package steam

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

// steamShortcutsFile builds a shortcuts.vdf the way the Steam client writes
// it: one entry with a negative app id and an empty tags map.
func steamShortcutsFile(appID int32, name string) []byte {
	var b bytes.Buffer
	header := func(kind byte, key string) {
		b.WriteByte(kind)
		b.WriteString(key)
		b.WriteByte(0x00)
	}
	str := func(key, value string) {
		header(0x01, key)
		b.WriteString(value)
		b.WriteByte(0x00)
	}

	header(0x00, "shortcuts")
	header(0x00, "0")
	header(0x02, "appid")
	binary.Write(&b, binary.LittleEndian, appID)
	str("AppName", name)
	str("Exe", `"/usr/bin/retroarch"`)
	str("StartDir", `"/usr/bin/"`)
	header(0x02, "AllowOverlay")
	binary.Write(&b, binary.LittleEndian, int32(1))
	header(0x00, "tags")
	b.WriteByte(0x08)
	b.WriteByte(0x08)
	b.WriteByte(0x08)
	b.WriteByte(0x08)
	return b.Bytes()
}

func TestLoadShortcutsReadsSteamFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := PathsForHome("/home/deck").ShortcutsFile(AccountID(42))
	if err := afero.WriteFile(fs, path, steamShortcutsFile(-123456789, "RetroArch"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadShortcuts(fs, path)
	if err != nil {
		t.Fatalf("LoadShortcuts: %v", err)
	}
	entries := doc.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0]; got.AppID != -123456789 || got.AppName != "RetroArch" || !got.AllowOverlay {
		t.Errorf("entry = %+v", got)
	}

	if err := doc.Add("", Shortcut{AppName: "OpenGOAL - Jak 1", AppID: -102815830}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadShortcuts(fs, path)
	if err != nil {
		t.Fatalf("LoadShortcuts after save: %v", err)
	}
	entries = reloaded.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries after save = %d, want 2", len(entries))
	}
	if entries[0].AppName != "RetroArch" || entries[1].AppName != "OpenGOAL - Jak 1" {
		t.Errorf("entries = %+v", entries)
	}
	if entries[1].AppID != -102815830 {
		t.Errorf("AppID = %d, want -102815830", entries[1].AppID)
	}
}

func TestLoadShortcutsWithoutSection(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := PathsForHome("/home/deck").ShortcutsFile(AccountID(42))
	data := []byte{0x00, 'o', 't', 'h', 'e', 'r', 0x00, 0x08, 0x08}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadShortcuts(fs, path); !errors.Is(err, ErrNoShortcutsKey) {
		t.Errorf("LoadShortcuts error = %v, want ErrNoShortcutsKey", err)
	}
}

func TestShortcutAppID(t *testing.T) {
	tests := []struct {
		exe  string
		want int32
		grid uint32
	}{
		{"/home/deck/OpenGOAL/games/jak1/gk", -102815830, 4192151466},
		{"/home/deck/OpenGOAL/games/jak2/gk", -640546330, 3654420966},
	}

	for _, tt := range tests {
		t.Run(tt.exe, func(t *testing.T) {
			got := ShortcutAppID(tt.exe)
			if got != tt.want {
				t.Errorf("ShortcutAppID = %d, want %d", got, tt.want)
			}
			if GridID(got) != tt.grid {
				t.Errorf("GridID = %d, want %d", GridID(got), tt.grid)
			}
		})
	}
}

func TestParseSteamID(t *testing.T) {
	tests := []struct {
		desc    string
		input   string
		want    AccountID
		wantErr bool
	}{
		{"steam64", "76561198012345678", 52079950, false},
		{"steam3", "[U:1:52079950]", 52079950, false},
		{"steam2", "STEAM_0:0:26039975", 52079950, false},
		{"garbage", "deck", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := ParseSteamID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSteamID) {
					t.Errorf("ParseSteamID error = %v, want ErrInvalidSteamID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSteamID: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSteamID = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAccountIDSteam64(t *testing.T) {
	id := AccountID(52079950)
	if got := id.Steam64(); got != 76561198012345678 {
		t.Errorf("Steam64() = %d, want 76561198012345678", got)
	}
}

func TestGridFileName(t *testing.T) {
	const appID = int32(-102815830)
	tests := []struct {
		slot ArtworkSlot
		want string
	}{
		{SlotCapsule, "4192151466p.png"},
		{SlotHero, "4192151466_hero.png"},
		{SlotLogo, "4192151466_logo.png"},
		{SlotWideCapsule, "4192151466.png"},
	}

	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			got, err := GridFileName(appID, tt.slot, "PNG")
			if err != nil {
				t.Fatalf("GridFileName: %v", err)
			}
			if got != tt.want {
				t.Errorf("GridFileName = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := GridFileName(appID, ArtworkSlot(9), "png"); err == nil {
		t.Error("expected error for unknown slot")
	}
}

func TestShortcutsAddAndReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := PathsForHome("/home/deck")
	path := paths.ShortcutsFile(AccountID(42))

	doc, err := LoadShortcuts(fs, path)
	if err != nil {
		t.Fatalf("LoadShortcuts on missing file: %v", err)
	}

	sc := Shortcut{
		AppID:         ShortcutAppID("/home/deck/OpenGOAL/games/jak2/gk"),
		AppName:       "OpenGOAL - Jak 2",
		Exe:           "/home/deck/OpenGOAL/games/jak2/gk",
		StartDir:      "/home/deck/OpenGOAL/games/jak2",
		LaunchOptions: "--game jak2",
		AllowOverlay:  true,
	}
	if err := doc.Add("opengoal-jak2", sc); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := doc.Add("other", sc); !errors.Is(err, ErrShortcutExists) {
		t.Errorf("second Add error = %v, want ErrShortcutExists", err)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadShortcuts(fs, path)
	if err != nil {
		t.Fatalf("LoadShortcuts: %v", err)
	}
	entries := reloaded.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0] != sc {
		t.Errorf("entry = %+v, want %+v", entries[0], sc)
	}
	if !reloaded.HasAppName("OpenGOAL - Jak 2") {
		t.Error("HasAppName = false after reload")
	}
}

func TestMostRecentUser(t *testing.T) {
	const loginUsers = `"users"
{
	"76561198000000001"
	{
		"AccountName"		"first"
		"MostRecent"		"0"
	}
	"76561198012345678"
	{
		"AccountName"		"second"
		"MostRecent"		"1"
	}
}
`
	fs := afero.NewMemMapFs()
	paths := PathsForHome("/home/deck")
	if err := afero.WriteFile(fs, paths.LoginUsers(), []byte(loginUsers), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := MostRecentUser(fs, paths)
	if err != nil {
		t.Fatalf("MostRecentUser: %v", err)
	}
	if got != AccountID(52079950) {
		t.Errorf("MostRecentUser = %d, want 52079950", got)
	}
}

func TestMostRecentUserWithoutUsers(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := PathsForHome("/home/deck")
	if err := afero.WriteFile(fs, paths.LoginUsers(), []byte("\"users\"\n{\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := MostRecentUser(fs, paths); !errors.Is(err, ErrNoLoggedInUser) {
		t.Errorf("MostRecentUser error = %v, want ErrNoLoggedInUser", err)
	}
}
