package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/wakeful-cloud/vdf"
)

var (
	ErrShortcutExists = errors.New("shortcut already exists")
	ErrNoShortcutsKey = errors.New("shortcuts.vdf has no shortcuts section")
)

type Shortcut struct {
	AppID         int32
	AppName       string
	Exe           string
	StartDir      string
	Icon          string
	LaunchOptions string
	AllowOverlay  bool
}

func (s Shortcut) toMap() vdf.Map {
	m := vdf.Map{
		"appid":        uint32(s.AppID),
		"AppName":      s.AppName,
		"Exe":          s.Exe,
		"StartDir":     s.StartDir,
		"icon":         s.Icon,
		"AllowOverlay": boolValue(s.AllowOverlay),
	}
	if s.LaunchOptions != "" {
		m["LaunchOptions"] = s.LaunchOptions
	}
	return m
}

func shortcutFromMap(m vdf.Map) Shortcut {
	return Shortcut{
		AppID:         int32(intValue(m["appid"])),
		AppName:       stringValue(m["AppName"]),
		Exe:           stringValue(m["Exe"]),
		StartDir:      stringValue(m["StartDir"]),
		Icon:          stringValue(m["icon"]),
		LaunchOptions: stringValue(m["LaunchOptions"]),
		AllowOverlay:  intValue(m["AllowOverlay"]) != 0,
	}
}

func boolValue(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// intValue reads a binary VDF int32 field. Steam stores app ids as signed,
// so the raw bits are kept.
func intValue(v any) uint32 {
	switch n := v.(type) {
	case uint32:
		return n
	case int32:
		return uint32(n)
	case int:
		return uint32(n)
	case uint64:
		return uint32(n)
	}
	return 0
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// Shortcuts is a loaded shortcuts.vdf document. Entries that this package
// does not understand are written back untouched.
type Shortcuts struct {
	fs   afero.Fs
	path string
	root vdf.Map
}

// LoadShortcuts reads path, or starts an empty document when the file does
// not exist yet.
func LoadShortcuts(fs afero.Fs, path string) (*Shortcuts, error) {
	s := &Shortcuts{fs: fs, path: path}

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		s.root = vdf.Map{"shortcuts": vdf.Map{}}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	root, err := vdf.ReadVdf(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, ok := root["shortcuts"].(vdf.Map); !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNoShortcutsKey)
	}
	s.root = root
	return s, nil
}

func (s *Shortcuts) section() vdf.Map {
	return s.root["shortcuts"].(vdf.Map)
}

// Entries lists the shortcuts ordered by their numeric keys.
func (s *Shortcuts) Entries() []Shortcut {
	section := s.section()
	out := make([]Shortcut, 0, len(section))
	for _, key := range sortedKeys(section) {
		if child, ok := section[key].(vdf.Map); ok {
			out = append(out, shortcutFromMap(child))
		}
	}
	return out
}

func sortedKeys(m vdf.Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ai, aErr := strconv.Atoi(a)
		bi, bErr := strconv.Atoi(b)
		if aErr == nil && bErr == nil {
			return ai - bi
		}
		return strings.Compare(a, b)
	})
	return keys
}

func (s *Shortcuts) HasAppName(name string) bool {
	for _, entry := range s.Entries() {
		if entry.AppName == name {
			return true
		}
	}
	return false
}

// Add stores sc under key, or under the next free index when key is empty.
// Shortcuts are matched by display name, so a second entry with the same
// AppName is rejected.
func (s *Shortcuts) Add(key string, sc Shortcut) error {
	if s.HasAppName(sc.AppName) {
		return fmt.Errorf("%q: %w", sc.AppName, ErrShortcutExists)
	}
	section := s.section()
	if key == "" {
		key = strconv.Itoa(len(section))
	}
	section[key] = sc.toMap()
	return nil
}

func (s *Shortcuts) Save() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(s.path), err)
	}

	data, err := vdf.WriteVdf(s.root)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
