// Package cache persists model palettes keyed by the SHA-256 of the image bytes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/models"
	"github.com/wallseed/wallseed/pkg/palette"
)

// FileName is the cache document inside the cache directory.
const FileName = "cache.json"

// Document is the on-disk mapping from content hash to a serialized palette.
// Values stay raw so entries written by older versions survive a rewrite.
type Document map[string]json.RawMessage

// Load reads the document at path. A missing file is an empty document.
func Load(path string) (Document, error) {
	doc := Document{}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, seederrors.NewCacheIOError(path, "read", err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, seederrors.NewCacheIOError(path, "decode", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Save rewrites the whole document at path.
func Save(path string, doc Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return seederrors.NewCacheIOError(path, "encode", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return seederrors.NewCacheIOError(path, "write", err)
	}
	return nil
}

// Cache is an in-memory view of the cache document, written through on Put.
// It is not safe for use by several processes at once: the last writer wins.
type Cache struct {
	path   string
	doc    Document
	hits   atomic.Int64
	misses atomic.Int64
}

// Open creates dir if needed and loads its cache document.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, seederrors.NewCacheIOError(dir, "mkdir", err)
	}
	path := filepath.Join(dir, FileName)
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Cache{path: path, doc: doc}, nil
}

// Path returns the cache document location.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the palette stored for hash. force always reports a miss.
func (c *Cache) Get(hash string, force bool) (models.Palette, bool) {
	if force {
		c.misses.Add(1)
		return nil, false
	}
	raw, ok := c.doc[hash]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	p, ok := decodeEntry(raw)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return p, true
}

// Put stores p under hash and rewrites the cache file.
func (c *Cache) Put(hash string, p models.Palette) error {
	if p.Empty() {
		return fmt.Errorf("cache put %s: empty palette", hash)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return seederrors.NewCacheIOError(c.path, "encode", err)
	}
	c.doc[hash] = raw
	return Save(c.path, c.doc)
}

// Stats returns cache performance metrics for this process.
func (c *Cache) Stats() models.CacheStats {
	return models.CacheStats{
		Entries: len(c.doc),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// decodeEntry accepts a palette object or a legacy single hex string, which is
// read as a primary-only palette.
func decodeEntry(raw json.RawMessage) (models.Palette, bool) {
	var legacy string
	if err := json.Unmarshal(raw, &legacy); err == nil {
		if !palette.ValidHex(legacy) {
			return nil, false
		}
		return models.Palette{models.RolePrimary: legacy}, true
	}
	return palette.Parse(string(raw))
}

// HashFile computes the SHA-256 of the file at path as lowercase hex.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
