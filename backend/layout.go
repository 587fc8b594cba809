package backend

import (
	"path/filepath"
)

// Layout resolves the OpenGOAL directory tree under a user's home.
type Layout struct {
	Home string
}

func (l Layout) Root() string {
	return filepath.Join(l.Home, "OpenGOAL")
}

func (l Layout) ISODir() string {
	return filepath.Join(l.Root(), "isos")
}

func (l Layout) ISOPath(game string) string {
	return filepath.Join(l.ISODir(), game+".iso")
}

func (l Layout) GamesDir() string {
	return filepath.Join(l.Root(), "games")
}

func (l Layout) GameDir(game string) string {
	return filepath.Join(l.GamesDir(), game)
}

func (l Layout) VersionFile(game string) string {
	return filepath.Join(l.GameDir(game), "version.json")
}

func (l Layout) Executable(game string) string {
	return filepath.Join(l.GameDir(game), "gk")
}

// ImageKind names one of the bundled artwork files for a game.
type ImageKind string

const (
	ImageSmall ImageKind = "small"
	ImageWide  ImageKind = "wide"
	ImageHero  ImageKind = "hero"
	ImageLogo  ImageKind = "logo"
	ImageIcon  ImageKind = "icon"
)

func (k ImageKind) Valid() bool {
	switch k {
	case ImageSmall, ImageWide, ImageHero, ImageLogo, ImageIcon:
		return true
	}
	return false
}

func ImagePath(assetsDir, game string, kind ImageKind) string {
	return filepath.Join(assetsDir, "img", game, string(kind)+".png")
}
