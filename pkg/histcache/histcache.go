// Package histcache caches fetched revision histories on disk.
//
// Entries are JSON snapshots compressed with LZ4 frames. Revision histories
// of popular pages run to hundreds of thousands of small, repetitive records,
// which compress well and are expensive to re-fetch.
package histcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"

	"github.com/infinitehoax/WikiContributionReport/pkg/wiki"
)

// ErrMiss is returned when no fresh cache entry exists for the key.
var ErrMiss = errors.New("histcache: entry not found")

const (
	fileExt  = ".json.lz4"
	dirPerm  = 0o750
	filePerm = 0o600
)

// Cache is a directory of compressed revision history snapshots.
// Entries older than the TTL are treated as absent; a zero TTL keeps
// entries forever.
type Cache struct {
	dir string
	ttl time.Duration
}

// New creates a cache rooted at dir.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// Load returns the cached history for the page, or ErrMiss when the entry
// is absent or stale. A corrupt entry also reads as a miss so a refetch can
// repair it.
func (c *Cache) Load(site, title string) (*wiki.PageHistory, error) {
	path := c.entryPath(site, title)

	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrMiss
	}

	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, ErrMiss
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrMiss
	}

	defer file.Close()

	var history wiki.PageHistory

	decodeErr := json.NewDecoder(lz4.NewReader(file)).Decode(&history)
	if decodeErr != nil {
		return nil, ErrMiss
	}

	return &history, nil
}

// Store writes the history snapshot for the page, overwriting any previous
// entry.
func (c *Cache) Store(site, title string, history *wiki.PageHistory) error {
	mkErr := os.MkdirAll(c.dir, dirPerm)
	if mkErr != nil {
		return fmt.Errorf("create cache dir: %w", mkErr)
	}

	file, err := os.OpenFile(c.entryPath(site, title), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}

	defer file.Close()

	zw := lz4.NewWriter(file)

	encodeErr := json.NewEncoder(zw).Encode(history)
	if encodeErr != nil {
		return fmt.Errorf("encode cache entry: %w", encodeErr)
	}

	closeErr := zw.Close()
	if closeErr != nil {
		return fmt.Errorf("flush cache entry: %w", closeErr)
	}

	return nil
}

// entryPath derives a stable filename from the site and title. Hashing
// sidesteps titles that are not valid filenames.
func (c *Cache) entryPath(site, title string) string {
	sum := sha256.Sum256([]byte(site + "\x00" + title))

	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+fileExt)
}
