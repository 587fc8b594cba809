package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
)

const ConfigFile = "config.json"

type Config struct {
	LogLevel        LogLevel       `json:"log_level,omitempty"`
	Language        string         `json:"language,omitempty"`
	BackendAddress  string         `json:"backend_address,omitempty"`
	HomeDir         string         `json:"home_dir,omitempty"`
	AssetsDir       string         `json:"assets_dir,omitempty"`
	SteamUserID     uint32         `json:"steam_user_id,omitempty"`
	GitHubToken     string         `json:"github_token,omitempty"`
	ApiTimeout      time.Duration  `json:"api_timeout"`
	DownloadTimeout time.Duration  `json:"download_timeout"`
	MinFreeSpaceMB  uint64         `json:"min_free_space_mb"`
	ReleaseCacheTTL time.Duration  `json:"release_cache_ttl"`
	RestartCommand  []string       `json:"restart_command,omitempty"`
	ReleaseChannel  ReleaseChannel `json:"release_channel,omitempty"`

	Games []Game `json:"games,omitempty"`
}

type Game struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func DefaultGames() []Game {
	return []Game{
		{ID: "jak1", Title: "Jak 1"},
		{ID: "jak2", Title: "Jak 2"},
	}
}

func (c Config) ToLoggable() any {
	token := ""
	if c.GitHubToken != "" {
		token = "********"
	}

	return map[string]any{
		"log_level":         c.LogLevel,
		"language":          c.Language,
		"backend_address":   c.BackendAddress,
		"home_dir":          c.HomeDir,
		"assets_dir":        c.AssetsDir,
		"steam_user_id":     c.SteamUserID,
		"github_token":      token,
		"api_timeout":       c.ApiTimeout,
		"download_timeout":  c.DownloadTimeout,
		"min_free_space_mb": c.MinFreeSpaceMB,
		"release_cache_ttl": c.ReleaseCacheTTL,
		"restart_command":   c.RestartCommand,
		"release_channel":   c.ReleaseChannel,
		"games":             c.Games,
	}
}

func (c *Config) applyDefaults() {
	if c.ApiTimeout == 0 {
		c.ApiTimeout = DefaultHTTPTimeout
	}

	if c.DownloadTimeout == 0 {
		c.DownloadTimeout = 60 * time.Minute
	}

	if c.Language == "" {
		c.Language = "en"
	}

	if c.HomeDir == "" {
		c.HomeDir = DefaultHomeDir
	}

	if c.AssetsDir == "" {
		c.AssetsDir = "assets"
	}

	if c.MinFreeSpaceMB == 0 {
		c.MinFreeSpaceMB = DefaultMinFreeSpaceMB
	}

	if c.ReleaseCacheTTL == 0 {
		c.ReleaseCacheTTL = DefaultReleaseCacheTTL
	}

	if len(c.RestartCommand) == 0 {
		c.RestartCommand = []string{"steam", "-shutdown"}
	}

	if c.ReleaseChannel == "" {
		c.ReleaseChannel = ReleaseChannelStable
	}

	if len(c.Games) == 0 {
		c.Games = DefaultGames()
	}
}

// LoadConfig reads config.json from the working directory.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigFile)
}

func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	config.applyDefaults()

	return &config, nil
}

// DefaultConfig is used on first launch, before config.json exists.
func DefaultConfig() *Config {
	config := &Config{LogLevel: LogLevelError}
	config.applyDefaults()
	return config
}

func SaveConfig(config *Config) error {
	if err := WriteConfig(ConfigFile, config); err != nil {
		gaba.GetLogger().Error("Failed to write config file", "error", err)
		return err
	}

	gaba.SetRawLogLevel(string(config.LogLevel))

	if err := i18n.SetWithCode(config.Language); err != nil {
		gaba.GetLogger().Error("Failed to set language", "error", err, "language", config.Language)
	}

	return nil
}

// WriteConfig applies defaults and writes config to path without touching
// the UI runtime.
func WriteConfig(path string, config *Config) error {
	if config.LogLevel == "" {
		config.LogLevel = LogLevelError
	}

	config.applyDefaults()

	pretty, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, pretty, 0644)
}

func (c Config) GetApiTimeout() time.Duration { return c.ApiTimeout }

func (c Config) MinFreeSpaceBytes() uint64 { return c.MinFreeSpaceMB * 1024 * 1024 }

func (c Config) FindGame(id string) (Game, bool) {
	for _, g := range c.Games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}
