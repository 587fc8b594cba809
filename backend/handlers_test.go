package backend

import (
	"context"
	"errors"
	"testing"

	"opengoal/rpc"

	"github.com/spf13/afero"
)

func TestRegisterHandlers(t *testing.T) {
	svc, fs := newMemService(t, nil)
	afero.WriteFile(fs, "/home/deck/OpenGOAL/games/jak1/gk", []byte("x"), 0755)
	afero.WriteFile(fs, "/home/deck/OpenGOAL/isos/jak1.iso", []byte("iso"), 0644)
	afero.WriteFile(fs, "/opt/opengoal/assets/img/jak1/small.png", []byte("png"), 0644)

	registry := rpc.NewRegistry(nil)
	svc.Register(registry)

	ctx := context.Background()

	tests := []struct {
		desc   string
		method string
		params rpc.Params
		truthy bool
		reason rpc.Reason
	}{
		{"home dir", rpc.MethodGetUsersHomeDir, nil, true, ""},
		{"installed", rpc.MethodIsGameInstalled, rpc.GameParams("jak1"), true, ""},
		{"not installed", rpc.MethodIsGameInstalled, rpc.GameParams("jak2"), false, ""},
		{"iso present", rpc.MethodDoesISOExist, rpc.GameParams("jak1"), true, ""},
		{"not out of date", rpc.MethodIsGameOutOfDate, rpc.GameParams("jak1"), false, ""},
		{"missing game param", rpc.MethodIsGameInstalled, rpc.Params{}, false, rpc.ReasonInvalidParams},
		{"shortcut not created", rpc.MethodShortcutAlreadyCreated, rpc.OwnerGameParams(42, "jak1"), false, ""},
		{"shortcut owner missing", rpc.MethodShortcutAlreadyCreated, rpc.GameParams("jak1"), false, rpc.ReasonInvalidParams},
		{"small image", rpc.MethodReadSmallImage, rpc.GameParams("jak1"), true, ""},
		{"missing wide image", rpc.MethodReadWideImage, rpc.GameParams("jak1"), false, rpc.ReasonInternal},
		{"install without iso", rpc.MethodInstallGame, rpc.GameParams("jak2"), false, rpc.ReasonInternal},
		{"remove", rpc.MethodRemoveGame, rpc.GameParams("jak2"), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result := registry.Call(ctx, tt.method, tt.params)
			if result.Truthy() != tt.truthy {
				t.Errorf("Truthy = %v, want %v (result %+v)", result.Truthy(), tt.truthy, result)
			}
			if tt.reason == "" {
				if !result.Succeeded() {
					t.Errorf("call failed: %v", result.Err())
				}
				return
			}
			if result.Failure == nil || result.Failure.Reason != tt.reason {
				t.Errorf("failure = %+v, want reason %s", result.Failure, tt.reason)
			}
		})
	}

	if home, ok := registry.Call(ctx, rpc.MethodGetUsersHomeDir, nil).String(); !ok || home != "/home/deck" {
		t.Errorf("home dir = %q, %v", home, ok)
	}

	created := registry.Call(ctx, rpc.MethodCreateShortcut, rpc.OwnerGameParams(42, "jak1"))
	if id, ok := created.Int64(); !ok || id != -102815830 {
		t.Errorf("create_shortcut = %d, %v", id, ok)
	}
	again := registry.Call(ctx, rpc.MethodCreateShortcut, rpc.OwnerGameParams(42, "jak1"))
	if again.Succeeded() {
		t.Error("second create_shortcut succeeded")
	}
	if !registry.Call(ctx, rpc.MethodShortcutAlreadyCreated, rpc.OwnerGameParams(42, "jak1")).Truthy() {
		t.Error("shortcut_already_created false after create")
	}
	if err := registry.Call(ctx, rpc.MethodCreateShortcut, rpc.OwnerGameParams(0, "jak1")).Err(); !errors.Is(err, rpc.ErrInvalidParams) {
		t.Errorf("owner 0 error = %v, want ErrInvalidParams", err)
	}
}
