// Package html caches NPC dialog files and renders them with %key% substitution.
package html

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const maxHTMLFileSize = 8192

var (
	// ErrNotFound is returned when a dialog file is neither cached nor on disk.
	ErrNotFound = errors.New("dialog not found")
	// ErrPathTraversal is returned for paths escaping the html root.
	ErrPathTraversal = errors.New("path traversal denied")
)

// DialogData maps placeholder names to values: key "npc_name" replaces "%npc_name%".
type DialogData map[string]string

// Cache loads .htm files from a directory and keeps their raw text.
type Cache struct {
	htmlDir string
	files   map[string]string
	mu      sync.RWMutex
	lazy    bool
}

// NewCache creates a new HTML cache.
// If lazy is false, all .htm files are loaded from htmlDir at creation time.
// If lazy is true, files are loaded on first access (cache miss).
func NewCache(htmlDir string, lazy bool) (*Cache, error) {
	c := &Cache{
		htmlDir: htmlDir,
		files:   make(map[string]string),
		lazy:    lazy,
	}

	if !lazy {
		if err := c.preload(); err != nil {
			return nil, fmt.Errorf("preloading HTML files: %w", err)
		}
	}

	return c, nil
}

// Get returns the raw file by relative path (e.g. "seven_signs/rift/NoParty.htm").
func (c *Cache) Get(path string) (string, error) {
	path, err := normalize(path)
	if err != nil {
		return "", err
	}

	c.mu.RLock()
	text, ok := c.files[path]
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	if !c.lazy {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	return c.loadAndCache(path)
}

// Execute renders path, replacing every %key% with data[key].
// Placeholders without a value are left as is.
func (c *Cache) Execute(path string, data DialogData) (string, error) {
	text, err := c.Get(path)
	if err != nil {
		return "", err
	}
	return Render(text, data), nil
}

// Render applies data to a raw dialog text.
func Render(text string, data DialogData) string {
	if len(data) == 0 {
		return text
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	// длинные ключи первыми: %npc_name% не должен съедаться %npc%
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "%"+k+"%", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Exists returns true if the file is cached or exists on disk.
func (c *Cache) Exists(path string) bool {
	path, err := normalize(path)
	if err != nil {
		return false
	}

	c.mu.RLock()
	_, ok := c.files[path]
	c.mu.RUnlock()
	if ok {
		return true
	}

	if c.lazy {
		_, err := os.Stat(filepath.Join(c.htmlDir, path))
		return err == nil
	}

	return false
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

func normalize(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("%s: %w", path, ErrPathTraversal)
	}
	return filepath.ToSlash(path), nil
}

// preload walks htmlDir and loads all .htm files into cache.
func (c *Cache) preload() error {
	info, err := os.Stat(c.htmlDir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("HTML directory does not exist, skipping preload", "dir", c.htmlDir)
			return nil
		}
		return fmt.Errorf("stat html dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("html dir is not a directory: %s", c.htmlDir)
	}

	count := 0
	err = filepath.WalkDir(c.htmlDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".htm") {
			return nil
		}

		relPath, err := filepath.Rel(c.htmlDir, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, err)
		}

		if _, err := c.loadFile(filepath.ToSlash(relPath)); err != nil {
			slog.Warn("failed to load HTML file", "path", relPath, "error", err)
			return nil
		}

		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking html dir: %w", err)
	}

	slog.Info("HTML files preloaded", "count", count, "dir", c.htmlDir)
	return nil
}

func (c *Cache) loadAndCache(path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text, ok := c.files[path]; ok {
		return text, nil
	}

	return c.loadFile(path)
}

// loadFile reads the file and stores it in cache.
// Caller must hold c.mu write lock (or be called during init).
func (c *Cache) loadFile(path string) (string, error) {
	fullPath := filepath.Join(c.htmlDir, filepath.FromSlash(path))

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxHTMLFileSize {
		return "", fmt.Errorf("file too large (%d bytes, max %d): %s", info.Size(), maxHTMLFileSize, path)
	}

	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(raw)
	c.files[path] = text
	return text, nil
}
