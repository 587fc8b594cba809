package main

import (
	"context"
	"os"
	gosync "sync"

	"opengoal/backend"
	"opengoal/cache"
	"opengoal/host"
	"opengoal/internal"
	"opengoal/internal/constants"
	"opengoal/panel"
	"opengoal/rpc"
	"opengoal/steam"
	"opengoal/ui"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
)

type AppState struct {
	Config *internal.Config
	Ctx    context.Context

	Panel    *panel.Panel
	Caller   rpc.Caller
	Service  *backend.Service // nil when the backend is remote
	Remote   *rpc.Client
	Backend  string
	Cache    *cache.Manager
	Releases *backend.CachedReleases
	Watch    *ui.ReleaseWatch

	watchOnce gosync.Once
}

// newAppState wires the panel to either an in-process backend or the remote
// one named in config.json.
func newAppState(ctx context.Context, config *internal.Config) (*AppState, error) {
	logger := gaba.GetLogger()

	state := &AppState{Config: config, Ctx: ctx}

	cm, err := cache.NewManager(cache.DefaultPath(), logger)
	if err != nil {
		logger.Error("Failed to initialize cache manager", "error", err)
	}
	state.Cache = cm

	client := backend.NewReleaseClient(config, logger)
	state.Releases = backend.NewCachedReleases(client, cm, config.ReleaseCacheTTL, logger).
		WithChannel(config.ReleaseChannel)

	if config.BackendAddress == "" {
		service := backend.NewServiceFromConfig(config, state.Releases, client, logger)
		if err := service.Migrate(); err != nil {
			logger.Error("Failed to prepare OpenGOAL directories", "error", err)
		}

		registry := rpc.NewRegistry(logger)
		service.Register(registry)

		state.Service = service
		state.Caller = registry
		state.Backend = "in-process"
	} else {
		dialCtx, cancel := context.WithTimeout(ctx, internal.ValidationTimeout)
		defer cancel()

		remote, err := rpc.Dial(dialCtx, config.BackendAddress, rpc.WithClientLogger(logger))
		if err != nil {
			state.Close()
			return nil, err
		}

		state.Remote = remote
		state.Caller = remote
		state.Backend = config.BackendAddress
	}

	fs := afero.NewOsFs()
	paths := steam.PathsForHome(config.HomeDir)
	users := host.NewSteamUserResolver(fs, paths, config.SteamUserID)

	restarter := host.NewCommandRestarter(config.RestartCommand, func() {
		state.Close()
		cleanup()
		os.Exit(int(constants.ExitCodeSteamRestart))
	}, logger)

	state.Panel = panel.New(panel.Deps{
		Caller:    state.Caller,
		Prompter:  ui.NewPrompter(),
		Artwork:   host.NewGridArtworkSetter(fs, paths, users, logger),
		Restarter: restarter,
		Navigator: ui.NewQRNavigator(),
		Users:     users,
		Logger:    logger,
	}, config.Games)

	state.Watch = ui.NewReleaseWatch(state.Releases, state.installedVersions, internal.ReleaseCheckTimeout)

	return state, nil
}

func (s *AppState) installedVersions() []string {
	if s.Service == nil {
		return nil
	}

	var tags []string
	for _, g := range s.Service.Games() {
		tag, err := s.Service.InstalledVersion(g.ID)
		if err == nil && tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// progress is only observable with the in-process backend.
func (s *AppState) progress() ui.ProgressFunc {
	if s.Service == nil {
		return nil
	}
	return func(game string) *atomic.Float64 {
		_, p := s.Service.Progress(game)
		return p
	}
}

func (s *AppState) startReleaseWatch() {
	s.watchOnce.Do(func() {
		ui.AddStatusBarIcon(s.Watch.Icon())
		s.Watch.Start()
	})
}

func (s *AppState) infoInput() ui.InfoInput {
	input := ui.InfoInput{
		Panel:     s.Panel,
		Backend:   s.Backend,
		LatestTag: s.Watch.LatestTag(),
	}

	if s.Service != nil {
		if free, err := s.Service.FreeSpace(); err == nil {
			input.FreeSpace = free
		}
	}

	if s.Cache != nil {
		stats := s.Cache.Stats()
		input.CacheStats = &stats
	}

	return input
}

func (s *AppState) Close() {
	logger := gaba.GetLogger()

	if s.Remote != nil {
		if err := s.Remote.Close(); err != nil {
			logger.Debug("Closing backend connection", "error", err)
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			logger.Debug("Closing cache", "error", err)
		}
	}
}
