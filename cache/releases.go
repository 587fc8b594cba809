package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"opengoal/update"
)

// GetRelease returns the cached release for repo. Entries older than maxAge
// report ErrStale; a maxAge of zero disables the age check.
func (cm *Manager) GetRelease(repo string, maxAge time.Duration) (*update.Release, error) {
	if cm == nil || !cm.initialized {
		return nil, ErrNotInitialized
	}
	if repo == "" {
		return nil, ErrInvalidCacheKey
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var dataJSON, cachedAt string
	err := cm.db.QueryRow(`SELECT data_json, cached_at FROM releases WHERE repo = ?`, repo).Scan(&dataJSON, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		cm.stats.recordMiss()
		return nil, ErrCacheMiss
	}
	if err != nil {
		cm.stats.recordError()
		return nil, newCacheError("get", "release", repo, err)
	}

	if maxAge > 0 {
		ts, err := time.Parse(time.RFC3339, cachedAt)
		if err != nil || time.Since(ts) > maxAge {
			cm.stats.recordMiss()
			return nil, ErrStale
		}
	}

	var release update.Release
	if err := json.Unmarshal([]byte(dataJSON), &release); err != nil {
		cm.stats.recordError()
		return nil, newCacheError("get", "release", repo, err)
	}

	cm.stats.recordHit()
	return &release, nil
}

func (cm *Manager) SaveRelease(repo string, release *update.Release) error {
	if cm == nil || !cm.initialized {
		return ErrNotInitialized
	}
	if repo == "" || release == nil {
		return ErrInvalidCacheKey
	}

	data, err := json.Marshal(release)
	if err != nil {
		return newCacheError("save", "release", repo, err)
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	_, err = cm.db.Exec(`
		INSERT OR REPLACE INTO releases (repo, tag, data_json, cached_at)
		VALUES (?, ?, ?, ?)
	`, repo, release.TagName, string(data), nowUTC())
	if err != nil {
		cm.stats.recordError()
		return newCacheError("save", "release", repo, err)
	}

	cm.logger.Debug("Cached release", "repo", repo, "tag", release.TagName)
	return nil
}

// CachedTags lists every cached repo with its tag.
func (cm *Manager) CachedTags() (map[string]string, error) {
	if cm == nil || !cm.initialized {
		return nil, ErrNotInitialized
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	rows, err := cm.db.Query(`SELECT repo, tag FROM releases`)
	if err != nil {
		return nil, newCacheError("list", "release", "", err)
	}
	defer rows.Close()

	tags := make(map[string]string)
	for rows.Next() {
		var repo, tag string
		if err := rows.Scan(&repo, &tag); err != nil {
			return nil, newCacheError("list", "release", "", err)
		}
		tags[repo] = tag
	}

	return tags, rows.Err()
}
