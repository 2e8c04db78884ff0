// Package localcache persists entity collections as JSON array files under
// a data directory. It backs the client's local mode and doubles as the
// source for the local-to-cloud migration.
package localcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

// Cache owns the data directory. One file per collection.
type Cache struct {
	fs  afero.Fs
	dir string
	log *logger.Logger
	mu  sync.Mutex
}

// New creates a cache rooted at dir, creating the directory if needed
func New(fs afero.Fs, dir string, log *logger.Logger) (*Cache, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Cache{fs: fs, dir: dir, log: log}, nil
}

func (c *Cache) path(collection string) string {
	return filepath.Join(c.dir, collection+".json")
}

// read loads the raw JSON array of a collection; a missing file is an empty
// collection.
func (c *Cache) read(collection string, out interface{}) error {
	data, err := afero.ReadFile(c.fs, c.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", collection, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// write persists a collection through a temp file and rename, so a crash
// mid-write never leaves a truncated collection behind.
func (c *Cache) write(collection string, items interface{}) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	tmp := c.path(collection) + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := c.fs.Rename(tmp, c.path(collection)); err != nil {
		return fmt.Errorf("rename %s: %w", collection, err)
	}
	return nil
}

// Collection is a typed view over one collection file
type Collection[T any] struct {
	cache *Cache
	name  string
	idOf  func(T) string
}

// NewCollection creates a typed collection. idOf extracts the entity id.
func NewCollection[T any](cache *Cache, name string, idOf func(T) string) *Collection[T] {
	return &Collection[T]{cache: cache, name: name, idOf: idOf}
}

// Load returns all items of the collection
func (col *Collection[T]) Load() ([]T, error) {
	col.cache.mu.Lock()
	defer col.cache.mu.Unlock()

	items := make([]T, 0)
	if err := col.cache.read(col.name, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Replace overwrites the collection with the given items
func (col *Collection[T]) Replace(items []T) error {
	col.cache.mu.Lock()
	defer col.cache.mu.Unlock()

	if items == nil {
		items = make([]T, 0)
	}
	return col.cache.write(col.name, items)
}

// Add appends an item. A duplicate id is rejected and logged.
func (col *Collection[T]) Add(item T) error {
	col.cache.mu.Lock()
	defer col.cache.mu.Unlock()

	items := make([]T, 0)
	if err := col.cache.read(col.name, &items); err != nil {
		return err
	}

	id := col.idOf(item)
	for _, existing := range items {
		if col.idOf(existing) == id {
			col.cache.log.Warn("duplicate id rejected",
				zap.String("collection", col.name), zap.String("id", id))
			return fmt.Errorf("%s: duplicate id %s", col.name, id)
		}
	}

	return col.cache.write(col.name, append(items, item))
}

// Update replaces the item with the given id. An unknown id is a logged
// no-op, matching how the cache behaved historically.
func (col *Collection[T]) Update(id string, item T) error {
	col.cache.mu.Lock()
	defer col.cache.mu.Unlock()

	items := make([]T, 0)
	if err := col.cache.read(col.name, &items); err != nil {
		return err
	}

	for i, existing := range items {
		if col.idOf(existing) == id {
			items[i] = item
			return col.cache.write(col.name, items)
		}
	}

	col.cache.log.Warn("update of unknown id ignored",
		zap.String("collection", col.name), zap.String("id", id))
	return nil
}

// Delete removes the item with the given id. An unknown id is a no-op.
func (col *Collection[T]) Delete(id string) error {
	col.cache.mu.Lock()
	defer col.cache.mu.Unlock()

	items := make([]T, 0)
	if err := col.cache.read(col.name, &items); err != nil {
		return err
	}

	kept := items[:0]
	for _, existing := range items {
		if col.idOf(existing) != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	return col.cache.write(col.name, kept)
}
