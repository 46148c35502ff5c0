package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/w2w/pkg/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot stores state blobs in the slot_entries table
type Slot struct {
	DB *gorm.DB
}

// NewSlot returns a storage.Slot backed by db
func NewSlot(db *gorm.DB) *Slot {
	return &Slot{DB: db}
}

// Get returns the value stored under key
func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	var entry SlotEntry
	err := s.DB.WithContext(ctx).Where(&SlotEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

// Put replaces the value stored under key with a single upsert
func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	entry := SlotEntry{Key: key, Value: string(value), UpdatedAt: time.Now()}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}
