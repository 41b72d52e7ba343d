// Package store persists the item catalog and placed instances in SQLite.
// Items are cached in memory after load since the catalog is small and read
// every frame; instances go through the database on every commit, which only
// happens on drag release or placement confirm.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Faultbox/roomforge/internal/catalog"
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Store is the SQLite-backed home store.
type Store struct {
	db *gorm.DB

	mu    sync.RWMutex
	items map[string]*catalog.Item
}

// Open opens (or creates) the database at path and runs migrations. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.AutoMigrate(&itemModel{}, &instanceModel{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	s := &Store{db: db, items: make(map[string]*catalog.Item)}
	if err := s.reloadItems(); err != nil {
		return nil, err
	}

	logger.Info("store opened",
		zap.String("path", path),
		zap.Int("items", len(s.items)))
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedCatalog upserts items into the catalog table and refreshes the cache.
// Existing items with the same id are overwritten; placed instances keep
// referring to them by id.
func (s *Store) SeedCatalog(items []catalog.Item) error {
	for i := range items {
		m := itemToModel(&items[i])
		if err := s.db.Save(&m).Error; err != nil {
			return fmt.Errorf("seeding item %s: %w", items[i].ID, err)
		}
	}
	return s.reloadItems()
}

func (s *Store) reloadItems() error {
	var models []itemModel
	if err := s.db.Find(&models).Error; err != nil {
		return fmt.Errorf("loading items: %w", err)
	}

	cache := make(map[string]*catalog.Item, len(models))
	for i := range models {
		item := modelToItem(&models[i])
		cache[item.ID] = item
	}

	s.mu.Lock()
	s.items = cache
	s.mu.Unlock()
	return nil
}

// GetItem returns a cached catalog item.
func (s *Store) GetItem(id string) (*catalog.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Items returns every catalog item.
func (s *Store) Items() []*catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*catalog.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

// UpdateItem persists a changed catalog item and refreshes the cache entry.
func (s *Store) UpdateItem(item *catalog.Item) error {
	m := itemToModel(item)
	if err := s.db.Save(&m).Error; err != nil {
		return fmt.Errorf("updating item %s: %w", item.ID, err)
	}
	s.mu.Lock()
	s.items[item.ID] = item
	s.mu.Unlock()
	return nil
}

// AddInstanceToRoom creates an instance of an item in a room and returns its
// generated id.
func (s *Store) AddInstanceToRoom(roomID, itemID string, position math.Vec3) (string, error) {
	if _, ok := s.GetItem(itemID); !ok {
		return "", fmt.Errorf("unknown item %q", itemID)
	}

	inst := catalog.NewInstance(uuid.NewString(), itemID, roomID, position)
	m := instanceToModel(inst)
	if err := s.db.Create(&m).Error; err != nil {
		return "", fmt.Errorf("creating instance: %w", err)
	}
	return inst.ID, nil
}

// UpdateInstance applies a mutation to a stored instance inside a read-modify-
// write cycle.
func (s *Store) UpdateInstance(id string, mutate func(*catalog.Instance)) error {
	var m instanceModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		return fmt.Errorf("loading instance %s: %w", id, err)
	}

	inst := modelToInstance(&m)
	mutate(inst)
	inst.ID = id // the mutation cannot re-identify the row

	updated := instanceToModel(inst)
	if err := s.db.Save(&updated).Error; err != nil {
		return fmt.Errorf("saving instance %s: %w", id, err)
	}
	return nil
}

// GetInstance loads one instance.
func (s *Store) GetInstance(id string) (*catalog.Instance, bool) {
	var m instanceModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("loading instance", zap.String("id", id), zap.Error(err))
		}
		return nil, false
	}
	return modelToInstance(&m), true
}

// DeleteInstance removes an instance. Deleting an unknown id is a no-op.
func (s *Store) DeleteInstance(id string) error {
	return s.db.Delete(&instanceModel{}, "id = ?", id).Error
}

// InstancesForRoom loads every instance placed in a room.
func (s *Store) InstancesForRoom(roomID string) ([]*catalog.Instance, error) {
	var models []instanceModel
	if err := s.db.Find(&models, "room_id = ?", roomID).Error; err != nil {
		return nil, fmt.Errorf("loading room %s: %w", roomID, err)
	}
	out := make([]*catalog.Instance, len(models))
	for i := range models {
		out[i] = modelToInstance(&models[i])
	}
	return out, nil
}

// InstancesForItem loads every placed occurrence of an item, across rooms.
func (s *Store) InstancesForItem(itemID string) ([]*catalog.Instance, error) {
	var models []instanceModel
	if err := s.db.Find(&models, "item_id = ?", itemID).Error; err != nil {
		return nil, fmt.Errorf("loading instances of %s: %w", itemID, err)
	}
	out := make([]*catalog.Instance, len(models))
	for i := range models {
		out[i] = modelToInstance(&models[i])
	}
	return out, nil
}
