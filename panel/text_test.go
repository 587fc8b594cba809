package panel

import (
	"strings"
	"testing"
)

func TestHelperText(t *testing.T) {
	const home = "/home/deck"

	tests := []struct {
		desc        string
		entry       GameEntry
		want        string
		wantEnabled bool
		wantLabel   string
	}{
		{
			desc:        "ready to install",
			entry:       GameEntry{ID: "jak1", Title: "Jak 1", ISOAvailable: true},
			want:        "Installs Jak 1 using /home/deck/OpenGOAL/isos/jak1.iso",
			wantEnabled: true,
			wantLabel:   "Install Jak 1",
		},
		{
			desc:        "installed and out of date",
			entry:       GameEntry{ID: "jak2", Title: "Jak 2", ISOAvailable: true, Installed: true, OutOfDate: true},
			want:        "/home/deck/OpenGOAL/games/jak2 is out of date!",
			wantEnabled: true,
			wantLabel:   "Update Jak 2",
		},
		{
			desc:      "iso missing",
			entry:     GameEntry{ID: "jak1", Title: "Jak 1"},
			want:      "/home/deck/OpenGOAL/isos/jak1.iso not found, can't install!",
			wantLabel: "Install Jak 1",
		},
		{
			desc:      "installed and current",
			entry:     GameEntry{ID: "jak1", Title: "Jak 1", ISOAvailable: true, Installed: true},
			want:      "Already installed in: /home/deck/OpenGOAL/games/jak1",
			wantLabel: "Install Jak 1",
		},
		{
			desc:      "installing",
			entry:     GameEntry{ID: "jak1", Title: "Jak 1", ISOAvailable: true, Installing: true},
			want:      "Installs Jak 1 using /home/deck/OpenGOAL/isos/jak1.iso",
			wantLabel: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := tt.entry.HelperText(home); got != tt.want {
				t.Errorf("HelperText = %q, want %q", got, tt.want)
			}
			if got := tt.entry.CanInstall(); got != tt.wantEnabled {
				t.Errorf("CanInstall = %v, want %v", got, tt.wantEnabled)
			}
			if got := tt.entry.ButtonLabel(); got != tt.wantLabel {
				t.Errorf("ButtonLabel = %q, want %q", got, tt.wantLabel)
			}
		})
	}
}

func TestHelperTextUsesLoadedHome(t *testing.T) {
	f := newFixture()
	f.caller.on("get_users_home_dir", "/var/home/gamer")
	f.set("jak1", func(e *GameEntry) { e.ISOAvailable = true })

	if got := f.panel.HelperText("jak1"); got != "Installs Jak 1 using /home/deck/OpenGOAL/isos/jak1.iso" {
		t.Errorf("before load = %q", got)
	}

	f.panel.Load(t.Context())

	if got := f.panel.HelperText("jak2"); got != "/var/home/gamer/OpenGOAL/isos/jak2.iso not found, can't install!" {
		t.Errorf("after load = %q", got)
	}
}

func TestShortcutText(t *testing.T) {
	e := GameEntry{Title: "Jak 2"}
	if got := e.ShortcutText(); got != "Adds a shortcut to your Steam Library for Jak 2" {
		t.Errorf("ShortcutText = %q", got)
	}
	e.ShortcutExists = true
	if got := e.ShortcutText(); got != "Shortcut Already Exists" {
		t.Errorf("ShortcutText = %q", got)
	}
	if e.ShortcutLabel() != "Create Jak 2 Shortcut" || e.RemoveLabel() != "Delete Jak 2" {
		t.Errorf("labels = %q, %q", e.ShortcutLabel(), e.RemoveLabel())
	}
}

func TestLoadingMessage(t *testing.T) {
	msg := LoadingMessage()
	if !strings.HasPrefix(msg, LoadingTitle) {
		t.Errorf("LoadingMessage = %q, want it to start with %q", msg, LoadingTitle)
	}
	if !strings.Contains(msg, "If it remains loading") {
		t.Errorf("LoadingMessage = %q, missing the remains-loading notice", msg)
	}
}
