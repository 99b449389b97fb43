// Package fmtcache keeps formatter results on disk so unchanged literals are
// not sent through sqruff again.
package fmtcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion is bumped whenever the entry layout changes.
const schemaVersion uint16 = 1

// entry is one cached formatter result.
type entry struct {
	Schema uint16 `msgpack:"schema"`
	Raw    bool   `msgpack:"raw"`
	Input  string `msgpack:"input"`
	Output string `msgpack:"output"`
}

// Cache is a content-addressed store of formatter results.
// Entries live under dir/namespace; the namespace identifies the formatter
// setup (command and config contents), so changing either starts afresh.
// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.RWMutex
	dir       string
	namespace string
}

// DefaultDir returns $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating cache directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Namespace derives a namespace name from the parts identifying a formatter
// setup.
func Namespace(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Open creates the cache directory if needed and returns a Cache.
func Open(dir, namespace string) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(filepath.Join(dir, namespace), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir, namespace: namespace}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) pathFor(content string, raw bool) string {
	h := sha256.New()
	if raw {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write([]byte(content))
	key := hex.EncodeToString(h.Sum(nil))
	return filepath.Join(c.dir, c.namespace, key[:2], key+".mp")
}

// Get returns the cached output for content, if any.
// A corrupt or stale entry is reported as a miss.
func (c *Cache) Get(content string, raw bool) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(content, raw))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}

	var e entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return "", false, nil //nolint:nilerr // corrupt entries are misses
	}
	if e.Schema != schemaVersion || e.Raw != raw || e.Input != content {
		return "", false, nil
	}
	return e.Output, true, nil
}

// Put stores output for content. The entry is written to a temp file and
// renamed into place.
func (c *Cache) Put(content string, raw bool, output string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := msgpack.Marshal(&entry{
		Schema: schemaVersion,
		Raw:    raw,
		Input:  content,
		Output: output,
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	path := c.pathFor(content, raw)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache entry: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}

// Clear removes every namespace under the cache directory.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Purge(c.dir)
}

// Purge removes the cache directory dir and everything in it.
func Purge(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing cache directory: %w", err)
	}
	return nil
}
