package steam

import (
	"errors"
	"fmt"
	"slices"

	"github.com/andygrunwald/vdf"
	"github.com/spf13/afero"
)

var ErrNoLoggedInUser = errors.New("no logged in steam user")

// MostRecentUser returns the account flagged MostRecent in loginusers.vdf.
// With a single user listed, that user is returned even without the flag.
func MostRecentUser(fs afero.Fs, paths Paths) (AccountID, error) {
	f, err := fs.Open(paths.LoginUsers())
	if err != nil {
		return 0, fmt.Errorf("opening loginusers.vdf: %w", err)
	}
	defer f.Close()

	doc, err := vdf.NewParser(f).Parse()
	if err != nil {
		return 0, fmt.Errorf("parsing loginusers.vdf: %w", err)
	}

	users, _ := doc["users"].(map[string]interface{})
	if len(users) == 0 {
		return 0, ErrNoLoggedInUser
	}

	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		user, ok := users[id].(map[string]interface{})
		if !ok {
			continue
		}
		if user["MostRecent"] == "1" || user["mostrecent"] == "1" {
			return ParseSteamID(id)
		}
	}

	if len(ids) == 1 {
		return ParseSteamID(ids[0])
	}
	return 0, ErrNoLoggedInUser
}
