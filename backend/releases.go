package backend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"opengoal/cache"
	"opengoal/internal"
	"opengoal/update"

	"go.uber.org/atomic"
)

// betaWindow is how many recent releases the beta channel looks through.
const betaWindow = 10

// ReleaseSource returns the newest OpenGOAL release.
type ReleaseSource interface {
	LatestRelease(ctx context.Context) (*update.Release, error)
}

// Downloader fetches a release asset to disk.
type Downloader interface {
	Download(ctx context.Context, url, destPath string, progress *atomic.Float64) (int64, error)
}

// CachedReleases serves the latest release from the sqlite cache while it is
// fresh and falls back to a stale entry when GitHub cannot be reached.
type CachedReleases struct {
	client  *update.Client
	cache   *cache.Manager
	owner   string
	repo    string
	channel internal.ReleaseChannel
	ttl     time.Duration
	logger  *slog.Logger
}

func NewCachedReleases(client *update.Client, cm *cache.Manager, ttl time.Duration, logger *slog.Logger) *CachedReleases {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedReleases{
		client:  client,
		cache:   cm,
		owner:   update.DefaultOwner,
		repo:    update.DefaultRepo,
		channel: internal.ReleaseChannelStable,
		ttl:     ttl,
		logger:  logger,
	}
}

// WithChannel switches between the latest stable release and the newest
// release of any kind, prereleases included.
func (c *CachedReleases) WithChannel(channel internal.ReleaseChannel) *CachedReleases {
	if channel != "" {
		c.channel = channel
	}
	return c
}

func (c *CachedReleases) key() string {
	if c.channel == internal.ReleaseChannelBeta {
		return c.owner + "/" + c.repo + "@beta"
	}
	return c.owner + "/" + c.repo
}

func (c *CachedReleases) fetch(ctx context.Context) (*update.Release, error) {
	if c.channel != internal.ReleaseChannelBeta {
		return c.client.LatestRelease(ctx, c.owner, c.repo)
	}

	releases, err := c.client.ListReleases(ctx, c.owner, c.repo, update.ListOptions{PerPage: betaWindow})
	if err != nil {
		return nil, err
	}
	for i := range releases {
		r := &releases[i]
		if !r.Draft && r.FindAssetMatching(linuxAssetFragment, linuxAssetSuffix) != nil {
			return r, nil
		}
	}
	return nil, update.ErrNoReleases
}

func (c *CachedReleases) LatestRelease(ctx context.Context) (*update.Release, error) {
	if c.cache != nil {
		release, err := c.cache.GetRelease(c.key(), c.ttl)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, cache.ErrStale) {
			c.logger.Warn("Release cache lookup failed", "error", err)
		}
	}

	release, err := c.fetch(ctx)
	if err != nil {
		if c.cache != nil {
			if stale, cacheErr := c.cache.GetRelease(c.key(), 0); cacheErr == nil {
				c.logger.Warn("Using cached release, GitHub unreachable", "tag", stale.TagName, "error", err)
				return stale, nil
			}
		}
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SaveRelease(c.key(), release); err != nil {
			c.logger.Warn("Failed to cache release", "error", err)
		} else {
			c.cache.RecordRefreshTime(cache.MetaKeyReleasesRefreshedAt)
		}
	}

	return release, nil
}

// NewReleaseClient builds the GitHub client with the timeout and token from
// config.json.
func NewReleaseClient(config *internal.Config, logger *slog.Logger) *update.Client {
	opts := []update.ClientOption{update.WithTimeout(config.ApiTimeout)}
	if logger != nil {
		opts = append(opts, update.WithLogger(logger))
	}
	if config.GitHubToken != "" {
		opts = append(opts, update.WithToken(config.GitHubToken))
	}
	return update.NewClient(opts...)
}
