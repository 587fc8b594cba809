package rpc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Method names understood by the backend.
const (
	MethodGetUsersHomeDir        = "get_users_home_dir"
	MethodIsGameInstalled        = "is_game_installed"
	MethodDoesISOExist           = "does_iso_exist_for_installation"
	MethodIsGameOutOfDate        = "is_game_out_of_date"
	MethodShortcutAlreadyCreated = "shortcut_already_created"
	MethodInstallGame            = "install_game"
	MethodUpdateGame             = "update_game"
	MethodRemoveGame             = "remove_game"
	MethodCreateShortcut         = "create_shortcut"
	MethodReadSmallImage         = "read_small_image_as_base64"
	MethodReadWideImage          = "read_wide_image_as_base64"
	MethodReadHeroImage          = "read_hero_image_as_base64"
	MethodReadLogoImage          = "read_logo_image_as_base64"
)

// Parameter keys.
const (
	ParamGame    = "game"
	ParamOwnerID = "owner_id"
)

type Params map[string]any

func GameParams(game string) Params {
	return Params{ParamGame: game}
}

func OwnerGameParams(owner uint32, game string) Params {
	return Params{ParamOwnerID: owner, ParamGame: game}
}

func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidParams, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", ErrInvalidParams, key)
	}
	return s, nil
}

// Uint32 accepts the numeric shapes a value can take after a JSON round
// trip, plus decimal strings.
func (p Params) Uint32(key string) (uint32, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", ErrInvalidParams, key)
	}

	var n float64
	switch t := v.(type) {
	case uint32:
		return t, nil
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case uint64:
		n = float64(t)
	case float64:
		n = t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidParams, key, err)
		}
		n = f
	case string:
		u, err := strconv.ParseUint(t, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidParams, key, err)
		}
		return uint32(u), nil
	default:
		return 0, fmt.Errorf("%w: %q has type %T", ErrInvalidParams, key, v)
	}

	if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidParams, key)
	}
	return uint32(n), nil
}
