package ui

import (
	"context"
	"sync/atomic"
	"time"

	"opengoal/backend"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
)

const updateIcon = "\U000F06B0"

// InstalledVersions lists the release tags of every installed game.
type InstalledVersions func() []string

// ReleaseWatch fetches the latest jak-project release in the background and
// lights a status bar icon when an installed game is behind it. The fetch
// also warms the release cache ahead of the panel's status queries.
type ReleaseWatch struct {
	source    backend.ReleaseSource
	installed InstalledVersions
	timeout   time.Duration

	icon            *gaba.DynamicStatusBarIcon
	running         atomic.Bool
	updateAvailable atomic.Bool
	latestTag       atomic.Value // string
	done            chan struct{}
}

func NewReleaseWatch(source backend.ReleaseSource, installed InstalledVersions, timeout time.Duration) *ReleaseWatch {
	return &ReleaseWatch{
		source:    source,
		installed: installed,
		timeout:   timeout,
		icon:      gaba.NewDynamicStatusBarIcon(""),
		done:      make(chan struct{}),
	}
}

func (w *ReleaseWatch) Icon() gaba.StatusBarIcon {
	return gaba.StatusBarIcon{
		Dynamic: w.icon,
	}
}

func (w *ReleaseWatch) Start() {
	w.running.Store(true)
	w.done = make(chan struct{})
	go w.run()
}

func (w *ReleaseWatch) IsRunning() bool {
	return w.running.Load()
}

// Wait blocks until the running check finished.
func (w *ReleaseWatch) Wait() {
	<-w.done
}

func (w *ReleaseWatch) UpdateAvailable() bool {
	return w.updateAvailable.Load()
}

func (w *ReleaseWatch) LatestTag() string {
	tag, _ := w.latestTag.Load().(string)
	return tag
}

func (w *ReleaseWatch) run() {
	logger := gaba.GetLogger()
	defer func() {
		w.running.Store(false)
		close(w.done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	logger.Debug("ReleaseWatch: Checking latest release in background")

	release, err := w.source.LatestRelease(ctx)
	if err != nil {
		logger.Debug("ReleaseWatch: Failed to fetch latest release", "error", err)
		return
	}

	w.latestTag.Store(release.TagName)

	if w.installed == nil {
		return
	}

	for _, tag := range w.installed() {
		if tag != "" && tag != release.TagName {
			logger.Debug("ReleaseWatch: Update available", "installed", tag, "latest", release.TagName)
			w.updateAvailable.Store(true)
			w.icon.SetText(updateIcon)
			return
		}
	}

	logger.Debug("ReleaseWatch: Installed games are current", "latest", release.TagName)
}
