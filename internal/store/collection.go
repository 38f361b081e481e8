package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingID is returned when a record without an identifier is saved.
var ErrMissingID = errors.New("record has no id")

// Record is anything stored in a collection slot.
type Record interface {
	RecordID() string
}

// Repository is the per-entity view of the store the domain layer depends on.
// Get returns nil, nil when no record has the given id.
type Repository[T Record] interface {
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Filter(ctx context.Context, keep func(T) bool) ([]T, error)
	Upsert(ctx context.Context, rec T) error
	Delete(ctx context.Context, id string) error
}

// Collection stores every record of one type as a JSON array in a single slot.
// Records keep the order in which their ids were first inserted.
type Collection[T Record] struct {
	kv   KV
	slot string
}

// NewCollection binds a collection to a slot of kv.
func NewCollection[T Record](kv KV, slot string) *Collection[T] {
	return &Collection[T]{kv: kv, slot: slot}
}

func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	raw, ok, err := c.kv.Get(ctx, c.slot)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if !ok || len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode slot %s: %w", c.slot, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	items, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].RecordID() == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// Upsert replaces the record with the same id in place, or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, rec T) error {
	if rec.RecordID() == "" {
		return ErrMissingID
	}
	items, err := c.All(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if items[i].RecordID() == rec.RecordID() {
			items[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, rec)
	}
	return c.save(ctx, items)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	items, err := c.All(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return c.save(ctx, kept)
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", c.slot, err)
	}
	return c.kv.Put(ctx, c.slot, raw)
}
