package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"opengoal/internal"
	"opengoal/internal/fileutil"
	"opengoal/steam"
	"opengoal/update"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
)

const (
	linuxAssetFragment = "opengoal-linux-"
	linuxAssetSuffix   = ".tar.gz"
)

type Stage string

const (
	StageIdle        Stage = ""
	StageDownloading Stage = "downloading"
	StageExtracting  Stage = "extracting"
	StageCompiling   Stage = "compiling"
	StageFinishing   Stage = "finishing"
)

type installState struct {
	mu       sync.Mutex
	stage    *atomic.String
	progress *atomic.Float64
}

// Service performs the filesystem, release and shortcut work behind the
// panel's remote calls.
type Service struct {
	fs              afero.Fs
	layout          Layout
	steamPaths      steam.Paths
	assetsDir       string
	games           []internal.Game
	releases        ReleaseSource
	downloader      Downloader
	runner          Runner
	unpack          func(archive, dest string, progress *atomic.Float64) error
	freeSpace       func(path string) (uint64, error)
	minFreeSpace    uint64
	downloadTimeout time.Duration
	logger          *slog.Logger

	mu       sync.Mutex
	installs map[string]*installState
}

type Option func(*Service)

func WithFs(fs afero.Fs) Option {
	return func(s *Service) { s.fs = fs }
}

func WithAssetsDir(dir string) Option {
	return func(s *Service) { s.assetsDir = dir }
}

func WithGames(games []internal.Game) Option {
	return func(s *Service) { s.games = games }
}

func WithReleaseSource(src ReleaseSource) Option {
	return func(s *Service) { s.releases = src }
}

func WithDownloader(d Downloader) Option {
	return func(s *Service) { s.downloader = d }
}

func WithRunner(r Runner) Option {
	return func(s *Service) { s.runner = r }
}

func WithFreeSpace(fn func(path string) (uint64, error)) Option {
	return func(s *Service) { s.freeSpace = fn }
}

func WithMinFreeSpace(bytes uint64) Option {
	return func(s *Service) { s.minFreeSpace = bytes }
}

func WithDownloadTimeout(timeout time.Duration) Option {
	return func(s *Service) { s.downloadTimeout = timeout }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(home string, opts ...Option) *Service {
	s := &Service{
		fs:         afero.NewOsFs(),
		layout:     Layout{Home: home},
		steamPaths: steam.PathsForHome(home),
		assetsDir:  "assets",
		games:      internal.DefaultGames(),
		runner:     ExecRunner{},
		unpack:     fileutil.Untar,
		freeSpace:  diskFree,
		logger:     slog.Default(),
		installs:   make(map[string]*installState),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.downloader == nil || s.releases == nil {
		client := update.NewClient(update.WithLogger(s.logger))
		if s.downloader == nil {
			s.downloader = client
		}
		if s.releases == nil {
			s.releases = NewCachedReleases(client, nil, 0, s.logger)
		}
	}

	return s
}

// NewServiceFromConfig wires a Service with the settings from config.json.
func NewServiceFromConfig(config *internal.Config, releases ReleaseSource, downloader Downloader, logger *slog.Logger) *Service {
	return NewService(config.HomeDir,
		WithAssetsDir(config.AssetsDir),
		WithGames(config.Games),
		WithReleaseSource(releases),
		WithDownloader(downloader),
		WithMinFreeSpace(config.MinFreeSpaceBytes()),
		WithDownloadTimeout(config.DownloadTimeout),
		WithLogger(logger),
	)
}

func diskFree(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

func (s *Service) Layout() Layout { return s.layout }

func (s *Service) Games() []internal.Game { return s.games }

func (s *Service) game(id string) (internal.Game, error) {
	for _, g := range s.games {
		if g.ID == id {
			return g, nil
		}
	}
	return internal.Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, id)
}

func (s *Service) state(game string) *installState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.installs[game]
	if !ok {
		st = &installState{stage: atomic.NewString(string(StageIdle)), progress: atomic.NewFloat64(0)}
		s.installs[game] = st
	}
	return st
}

// Progress returns the current install stage for game and the live progress
// value of that stage.
func (s *Service) Progress(game string) (Stage, *atomic.Float64) {
	st := s.state(game)
	return Stage(st.stage.Load()), st.progress
}

func (s *Service) setStage(st *installState, stage Stage) {
	st.stage.Store(string(stage))
	st.progress.Store(0)
}

func (s *Service) HomeDir() string {
	return s.layout.Home
}

// FreeSpace reports the bytes available on the volume holding the home
// directory.
func (s *Service) FreeSpace() (uint64, error) {
	return s.freeSpace(s.layout.Home)
}

// Migrate creates the directory layout the panel expects.
func (s *Service) Migrate() error {
	if err := s.fs.MkdirAll(s.layout.ISODir(), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", s.layout.ISODir(), err)
	}
	for _, g := range s.games {
		if err := s.fs.MkdirAll(s.layout.GameDir(g.ID), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", s.layout.GameDir(g.ID), err)
		}
	}
	return nil
}

// IsInstalled reports whether the game directory exists and has content.
func (s *Service) IsInstalled(game string) (bool, error) {
	entries, err := afero.ReadDir(s.fs, s.layout.GameDir(game))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

func (s *Service) ISOExists(game string) (bool, error) {
	return afero.Exists(s.fs, s.layout.ISOPath(game))
}

type versionInfo struct {
	Version string `json:"version"`
}

// InstalledVersion returns the release tag recorded at install time, or an
// empty string when none was recorded.
func (s *Service) InstalledVersion(game string) (string, error) {
	data, err := afero.ReadFile(s.fs, s.layout.VersionFile(game))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var info versionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return "", fmt.Errorf("%w: %v", ErrVersionFileInvalid, err)
	}
	return info.Version, nil
}

// IsOutOfDate compares the installed tag with the latest release. A game
// without a version file is never out of date.
func (s *Service) IsOutOfDate(ctx context.Context, game string) (bool, error) {
	installed, err := s.InstalledVersion(game)
	if err != nil {
		return false, err
	}
	if installed == "" {
		return false, nil
	}

	release, err := s.releases.LatestRelease(ctx)
	if err != nil {
		return false, fmt.Errorf("fetching latest release: %w", err)
	}

	return release.TagName != installed, nil
}

type GameStatus struct {
	ID               string
	Title            string
	Installed        bool
	ISOAvailable     bool
	OutOfDate        bool
	InstalledVersion string
}

// Status gathers everything known about a game. Individual lookup errors
// leave the matching field false and are logged.
func (s *Service) Status(ctx context.Context, game string) (GameStatus, error) {
	g, err := s.game(game)
	if err != nil {
		return GameStatus{}, err
	}

	status := GameStatus{ID: g.ID, Title: g.Title}
	if status.Installed, err = s.IsInstalled(game); err != nil {
		s.logger.Warn("Install check failed", "game", game, "error", err)
	}
	if status.ISOAvailable, err = s.ISOExists(game); err != nil {
		s.logger.Warn("ISO check failed", "game", game, "error", err)
	}
	if status.InstalledVersion, err = s.InstalledVersion(game); err != nil {
		s.logger.Warn("Version check failed", "game", game, "error", err)
	}
	if status.OutOfDate, err = s.IsOutOfDate(ctx, game); err != nil {
		s.logger.Warn("Update check failed", "game", game, "error", err)
	}
	return status, nil
}

// Install downloads the latest release into the game directory and runs
// the extractor against the game's ISO.
func (s *Service) Install(ctx context.Context, game string) error {
	if _, err := s.game(game); err != nil {
		return err
	}

	st := s.state(game)
	if !st.mu.TryLock() {
		return fmt.Errorf("%s: %w", game, ErrInstallInProgress)
	}
	defer st.mu.Unlock()
	defer s.setStage(st, StageIdle)

	return s.install(ctx, game, st)
}

// Update replaces the installed build with the latest release. The old build
// stays in place until the new archive is downloaded.
func (s *Service) Update(ctx context.Context, game string) error {
	if _, err := s.game(game); err != nil {
		return err
	}

	st := s.state(game)
	if !st.mu.TryLock() {
		return fmt.Errorf("%s: %w", game, ErrInstallInProgress)
	}
	defer st.mu.Unlock()
	defer s.setStage(st, StageIdle)

	return s.install(ctx, game, st)
}

func (s *Service) install(ctx context.Context, game string, st *installState) error {
	if s.downloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.downloadTimeout)
		defer cancel()
	}

	logger := s.logger.With("game", game)
	logger.Info("Installing game")

	isoPath := s.layout.ISOPath(game)
	if ok, _ := afero.Exists(s.fs, isoPath); !ok {
		return fmt.Errorf("%w: %s", ErrISONotFound, isoPath)
	}

	release, err := s.releases.LatestRelease(ctx)
	if err != nil {
		return fmt.Errorf("fetching latest release: %w", err)
	}

	asset := release.FindAssetMatching(linuxAssetFragment, linuxAssetSuffix)
	if asset == nil {
		return fmt.Errorf("%s: %w", release.TagName, update.ErrNoMatchingAsset)
	}

	if err := s.checkFreeSpace(s.layout.GamesDir(), uint64(asset.Size)); err != nil {
		return err
	}

	// The archive is staged next to the game directory so a failed download
	// leaves an existing build untouched.
	s.setStage(st, StageDownloading)
	archivePath := filepath.Join(s.layout.GamesDir(), "."+game+"-"+asset.Name)
	defer func() {
		if err := s.fs.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to delete archive", "path", archivePath, "error", err)
		}
	}()

	written, err := s.downloader.Download(ctx, asset.BrowserDownloadURL, archivePath, st.progress)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", asset.Name, err)
	}
	logger.Info("Downloaded release", "asset", asset.Name, "size", humanize.Bytes(uint64(written)))

	gameDir := s.layout.GameDir(game)
	if err := s.fs.RemoveAll(gameDir); err != nil {
		return fmt.Errorf("resetting %s: %w", gameDir, err)
	}
	if err := s.fs.MkdirAll(gameDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", gameDir, err)
	}

	s.setStage(st, StageExtracting)
	if err := s.unpack(archivePath, gameDir, st.progress); err != nil {
		return fmt.Errorf("extracting %s: %w", asset.Name, err)
	}

	s.setStage(st, StageCompiling)
	args := ExtractorArgs(isoPath, game, release.TagName)
	logger.Debug("Running extractor", "args", args)
	output, err := s.runner.Run(ctx, gameDir, "./extractor", args...)
	if err != nil {
		logger.Error("Extractor failed", "error", err, "output", string(output))
		return fmt.Errorf("%w: %v", ErrExtractorFailed, err)
	}

	s.setStage(st, StageFinishing)
	for _, dir := range []string{"decompiler_out", "iso_data"} {
		if err := s.fs.RemoveAll(filepath.Join(gameDir, "data", dir)); err != nil {
			logger.Warn("Failed to clean up", "dir", dir, "error", err)
		}
	}

	data, err := json.Marshal(versionInfo{Version: release.TagName})
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, s.layout.VersionFile(game), data, 0644); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}

	logger.Info("Game installed", "version", release.TagName)
	return nil
}

func (s *Service) checkFreeSpace(path string, assetSize uint64) error {
	if s.freeSpace == nil {
		return nil
	}

	free, err := s.freeSpace(path)
	if err != nil {
		s.logger.Warn("Could not determine free space", "path", path, "error", err)
		return nil
	}

	need := assetSize + s.minFreeSpace
	if free < need {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientSpace, humanize.Bytes(need), humanize.Bytes(free))
	}
	return nil
}

// Remove deletes the game directory.
func (s *Service) Remove(game string) error {
	if _, err := s.game(game); err != nil {
		return err
	}

	st := s.state(game)
	if !st.mu.TryLock() {
		return fmt.Errorf("%s: %w", game, ErrInstallInProgress)
	}
	defer st.mu.Unlock()

	return s.remove(game)
}

func (s *Service) remove(game string) error {
	gameDir := s.layout.GameDir(game)
	if err := s.fs.RemoveAll(gameDir); err != nil {
		return fmt.Errorf("removing %s: %w", gameDir, err)
	}
	s.logger.Info("Removed game", "game", game)
	return nil
}

func shortcutName(g internal.Game) string {
	return "OpenGOAL - " + g.Title
}

func (s *Service) ShortcutExists(owner steam.AccountID, game string) (bool, error) {
	g, err := s.game(game)
	if err != nil {
		return false, err
	}

	shortcuts, err := steam.LoadShortcuts(s.fs, s.steamPaths.ShortcutsFile(owner))
	if err != nil {
		return false, err
	}
	return shortcuts.HasAppName(shortcutName(g)), nil
}

// CreateShortcut adds a non-Steam game entry for game to owner's library and
// returns the shortcut's app id.
func (s *Service) CreateShortcut(owner steam.AccountID, game string) (int32, error) {
	g, err := s.game(game)
	if err != nil {
		return 0, err
	}

	path := s.steamPaths.ShortcutsFile(owner)
	shortcuts, err := steam.LoadShortcuts(s.fs, path)
	if err != nil {
		return 0, err
	}

	exe := s.layout.Executable(game)
	sc := steam.Shortcut{
		AppID:        steam.ShortcutAppID(exe),
		AppName:      shortcutName(g),
		Exe:          exe,
		StartDir:     s.layout.GameDir(game),
		Icon:         ImagePath(s.absAssetsDir(), game, ImageIcon),
		AllowOverlay: true,
	}
	if game != "jak1" {
		sc.LaunchOptions = "--game " + game
	}

	if err := shortcuts.Add("opengoal-"+game, sc); err != nil {
		return 0, err
	}
	if err := shortcuts.Save(); err != nil {
		return 0, err
	}

	s.logger.Info("Created shortcut", "game", game, "owner", owner, "appID", sc.AppID)
	return sc.AppID, nil
}

func (s *Service) absAssetsDir() string {
	if filepath.IsAbs(s.assetsDir) {
		return s.assetsDir
	}
	if abs, err := filepath.Abs(s.assetsDir); err == nil {
		return abs
	}
	return s.assetsDir
}

// ReadImage returns a bundled artwork file base64 encoded.
func (s *Service) ReadImage(game string, kind ImageKind) (string, error) {
	if _, err := s.game(game); err != nil {
		return "", err
	}
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageKind, kind)
	}

	data, err := afero.ReadFile(s.fs, ImagePath(s.assetsDir, game, kind))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
