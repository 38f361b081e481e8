package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"factory-maintenance-backend/internal/model"
)

// KV is the raw named-slot persistence the entity store is built on.
type KV interface {
	Get(ctx context.Context, name string) ([]byte, bool, error)
	Put(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, names ...string) error
	// Transaction runs fn against a KV whose writes commit together or not at all.
	Transaction(ctx context.Context, fn func(tx KV) error) error
}

// gormKV implements KV on the kv_slots table.
type gormKV struct {
	db *gorm.DB
}

// NewGormKV creates a new GORM-backed slot store.
func NewGormKV(db *gorm.DB) KV {
	return &gormKV{db: db}
}

func (k *gormKV) Get(ctx context.Context, name string) ([]byte, bool, error) {
	var slots []model.Slot
	if err := k.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&slots).Error; err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", name, err)
	}
	if len(slots) == 0 {
		return nil, false, nil
	}
	return []byte(slots[0].Value), true, nil
}

func (k *gormKV) Put(ctx context.Context, name string, value []byte) error {
	slot := model.Slot{
		Name:      name,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	err := k.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", name, err)
	}
	return nil
}

func (k *gormKV) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if err := k.db.WithContext(ctx).Where("name IN ?", names).Delete(&model.Slot{}).Error; err != nil {
		return fmt.Errorf("failed to delete slots %v: %w", names, err)
	}
	return nil
}

func (k *gormKV) Transaction(ctx context.Context, fn func(tx KV) error) error {
	return k.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormKV{db: tx})
	})
}
