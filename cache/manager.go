package cache

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type Manager struct {
	db          *sql.DB
	dbPath      string
	mu          sync.RWMutex
	initialized bool
	logger      *slog.Logger

	stats *Stats
}

type Stats struct {
	mu         sync.Mutex
	Hits       int64
	Misses     int64
	Errors     int64
	LastAccess time.Time
}

func (s *Stats) recordHit() {
	s.mu.Lock()
	s.Hits++
	s.LastAccess = time.Now()
	s.mu.Unlock()
}

func (s *Stats) recordMiss() {
	s.mu.Lock()
	s.Misses++
	s.LastAccess = time.Now()
	s.mu.Unlock()
}

func (s *Stats) recordError() {
	s.mu.Lock()
	s.Errors++
	s.mu.Unlock()
}

// Snapshot copies the counters without the lock.
type Snapshot struct {
	Hits       int64
	Misses     int64
	Errors     int64
	LastAccess time.Time
}

func (s *Stats) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Hits: s.Hits, Misses: s.Misses, Errors: s.Errors, LastAccess: s.LastAccess}
}

// NewManager opens (or creates) the sqlite database at dbPath.
func NewManager(dbPath string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, newCacheError("init", "", "", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, newCacheError("init", "", "", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, newCacheError("init", "", "", err)
	}

	cm := &Manager{
		db:          db,
		dbPath:      dbPath,
		initialized: true,
		logger:      logger,
		stats:       &Stats{},
	}

	logger.Debug("Cache manager initialized", "path", dbPath)
	return cm, nil
}

// DefaultPath places the database under .cache in the working directory.
func DefaultPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(os.TempDir(), ".cache", "opengoal.db")
	}
	return filepath.Join(wd, ".cache", "opengoal.db")
}

func (cm *Manager) Close() error {
	if cm == nil || cm.db == nil {
		return nil
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.initialized = false
	return cm.db.Close()
}

func (cm *Manager) Stats() Snapshot {
	if cm == nil {
		return Snapshot{}
	}
	return cm.stats.snapshot()
}

func (cm *Manager) Clear() error {
	if cm == nil || !cm.initialized {
		return ErrNotInitialized
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, err := cm.db.Exec("DELETE FROM releases"); err != nil {
		return newCacheError("clear", "release", "", err)
	}

	cm.logger.Info("Cache cleared")
	return nil
}

const MetaKeyReleasesRefreshedAt = "releases_refreshed_at"

func (cm *Manager) SetMetadata(key, value string) error {
	if cm == nil || !cm.initialized {
		return ErrNotInitialized
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	_, err := cm.db.Exec(`
		INSERT OR REPLACE INTO cache_metadata (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, nowUTC())
	if err != nil {
		return newCacheError("set_metadata", "metadata", key, err)
	}

	return nil
}

func (cm *Manager) GetMetadata(key string) (string, error) {
	if cm == nil || !cm.initialized {
		return "", ErrNotInitialized
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var value string
	err := cm.db.QueryRow(`SELECT value FROM cache_metadata WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", newCacheError("get_metadata", "metadata", key, err)
	}

	return value, nil
}

func (cm *Manager) GetLastRefreshTime(key string) (time.Time, error) {
	value, err := cm.GetMetadata(key)
	if err != nil {
		return time.Time{}, err
	}

	return time.Parse(time.RFC3339, value)
}

func (cm *Manager) RecordRefreshTime(key string) error {
	return cm.SetMetadata(key, nowUTC())
}
