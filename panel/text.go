package panel

import (
	"fmt"
	"path"
)

const (
	DefaultHomeDir = "/home/deck"

	LoadingTitle = "Loading..."
	LoadingText  = "If it remains loading for a while, the backend did not answer. You may have to restart your device or re-open the app."
)

type Link struct {
	Name string
	URL  string
}

// LoadingMessage is shown while the initial status queries run.
func LoadingMessage() string {
	return LoadingTitle + "\n" + LoadingText
}

var Links = []Link{
	{Name: "Website", URL: "https://opengoal.dev/"},
	{Name: "Discord", URL: "https://discord.gg/VZbXMHXzWv"},
	{Name: "GitHub", URL: "https://github.com/open-goal/"},
}

func isoPath(home, id string) string {
	return path.Join(home, "OpenGOAL", "isos", id+".iso")
}

func gamePath(home, id string) string {
	return path.Join(home, "OpenGOAL", "games", id)
}

// HelperText describes the install state of e for a user whose home is home.
func (e GameEntry) HelperText(home string) string {
	switch {
	case e.Installed && e.OutOfDate:
		return fmt.Sprintf("%s is out of date!", gamePath(home, e.ID))
	case e.Installed:
		return fmt.Sprintf("Already installed in: %s", gamePath(home, e.ID))
	case !e.ISOAvailable:
		return fmt.Sprintf("%s not found, can't install!", isoPath(home, e.ID))
	default:
		return fmt.Sprintf("Installs %s using %s", e.Title, isoPath(home, e.ID))
	}
}

// ButtonLabel is the install button text. While installing the button shows
// a busy indicator instead, reported here as an empty label.
func (e GameEntry) ButtonLabel() string {
	switch {
	case e.Installing:
		return ""
	case e.OutOfDate:
		return "Update " + e.Title
	default:
		return "Install " + e.Title
	}
}

func (e GameEntry) RemoveLabel() string {
	return "Delete " + e.Title
}

func (e GameEntry) ShortcutLabel() string {
	return "Create " + e.Title + " Shortcut"
}

func (e GameEntry) ShortcutText() string {
	if e.ShortcutExists {
		return "Shortcut Already Exists"
	}
	return "Adds a shortcut to your Steam Library for " + e.Title
}

func removePrompt(title string) (string, string) {
	return fmt.Sprintf("Delete %s?", title), fmt.Sprintf("Are you sure you want to delete %s?", title)
}
