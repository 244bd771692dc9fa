package internal

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gnoswap-labs/tuck/meta"
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

type cacheEntry struct {
	// Metadata is zero for programs compiled from in-memory source.
	Metadata     fileMetadata
	Program      *meta.Program
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache holds compiled programs, keyed by grammar file or by the hash of
// grammar source. File entries are dropped once the file changes.
type Cache struct {
	entries map[string]cacheEntry
	mutex   sync.RWMutex
	maxAge  time.Duration
}

// NewCache returns an empty cache. A zero maxAge keeps entries until the
// file they came from changes.
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		maxAge:  maxAge,
	}
}

func sourceKey(source string) string {
	return fmt.Sprintf("md5:%x", md5.Sum([]byte(source)))
}

// SetFile records the program compiled from filename.
func (c *Cache) SetFile(filename string, prog *meta.Program) error {
	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = cacheEntry{
		Metadata:     metadata,
		Program:      prog,
		CreatedAt:    now,
		LastAccessed: now,
	}
	return nil
}

// GetFile returns the program cached for filename if the file is unchanged.
func (c *Cache) GetFile(filename string) (*meta.Program, bool) {
	return c.get(filename, func(entry cacheEntry) bool {
		current, err := getFileMetadata(filename)
		return err != nil || current != entry.Metadata
	})
}

// SetSource records the program compiled from source.
func (c *Cache) SetSource(source string, prog *meta.Program) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[sourceKey(source)] = cacheEntry{
		Program:      prog,
		CreatedAt:    now,
		LastAccessed: now,
	}
}

// GetSource returns the program cached for source.
func (c *Cache) GetSource(source string) (*meta.Program, bool) {
	return c.get(sourceKey(source), nil)
}

func (c *Cache) get(key string, stale func(cacheEntry) bool) (*meta.Program, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if c.isExpired(entry) || (stale != nil && stale(entry)) {
		delete(c.entries, key)
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[key] = entry

	return entry.Program, true
}

func (c *Cache) isExpired(entry cacheEntry) bool {
	return c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

// Len reports the number of cached programs, including stale ones not yet
// looked up.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]cacheEntry)
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         fmt.Sprintf("%x", hash.Sum(nil)),
		LastModified: info.ModTime(),
	}, nil
}
