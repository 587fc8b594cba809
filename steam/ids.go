package steam

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

var ErrInvalidSteamID = errors.New("invalid steam id")

var shortcutIDModulus = big.NewInt(1_000_000_000)

// AccountID is the 32-bit account number used for userdata directories.
type AccountID uint32

// AccountIDOf narrows a parsed SteamID to its account number.
func AccountIDOf(sid steamid.SteamID) AccountID {
	return AccountID(sid.AccountID)
}

// ParseSteamID accepts any form steamid understands: SteamID64, STEAM_0:x:y
// or [U:1:n].
func ParseSteamID(s string) (AccountID, error) {
	sid := steamid.New(s)
	if !sid.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSteamID, s)
	}
	return AccountIDOf(sid), nil
}

// SteamID widens the account id to an individual account in the public universe.
func (a AccountID) SteamID() steamid.SteamID {
	return steamid.New(fmt.Sprintf("[U:1:%d]", uint32(a)))
}

// Steam64 is the public SteamID64 of the account.
func (a AccountID) Steam64() uint64 {
	return uint64(a.SteamID().Int64())
}

func (a AccountID) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// ShortcutAppID derives a stable negative app id from the executable path.
// The value always fits an int32, which is how shortcuts.vdf stores it.
func ShortcutAppID(exe string) int32 {
	sum := sha256.Sum256([]byte(exe))
	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, shortcutIDModulus)
	return -int32(n.Int64())
}

// GridID is the unsigned form Steam uses for grid artwork file names.
func GridID(appID int32) uint32 {
	return uint32(appID)
}
