package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"factory-maintenance-backend/internal/model"
)

// ReminderStore is the reminder sink: it records reminders in the database and hands
// out opaque handles. Delivery happens later through the Dispatcher.
type ReminderStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReminderStore creates a new GORM-backed reminder sink.
func NewReminderStore(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db, now: time.Now}
}

// ScheduleReminder registers a reminder for referenceID that fires at fireAt.
func (r *ReminderStore) ScheduleReminder(ctx context.Context, referenceID, title, body string, fireAt time.Time) (string, error) {
	if fireAt.IsZero() {
		return "", fmt.Errorf("reminder for %s has no fire time", referenceID)
	}
	reminder := model.Reminder{
		Handle:      uuid.NewString(),
		ReferenceID: referenceID,
		Title:       title,
		Body:        body,
		FireAt:      fireAt.UTC(),
		CreatedAt:   r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&reminder).Error; err != nil {
		return "", fmt.Errorf("failed to schedule reminder for %s: %w", referenceID, err)
	}
	return reminder.Handle, nil
}

// CancelReminder removes a reminder. Unknown handles are not an error.
func (r *ReminderStore) CancelReminder(ctx context.Context, handle string) error {
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).Delete(&model.Reminder{}).Error; err != nil {
		return fmt.Errorf("failed to cancel reminder %s: %w", handle, err)
	}
	return nil
}

// Get returns the reminder with the given handle, or nil when none exists.
func (r *ReminderStore) Get(ctx context.Context, handle string) (*model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).Limit(1).Find(&reminders).Error; err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return nil, nil
	}
	return &reminders[0], nil
}

// ClaimDue marks every undelivered reminder due at or before now as delivered and
// returns them, oldest first.
func (r *ReminderStore) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	var due []model.Reminder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivered_at IS NULL AND fire_at <= ?", now.UTC()).
			Order("fire_at").
			Limit(limit).
			Find(&due).Error; err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}
		handles := make([]string, len(due))
		for i, reminder := range due {
			handles[i] = reminder.Handle
		}
		claimedAt := now.UTC()
		for i := range due {
			due[i].DeliveredAt = &claimedAt
		}
		return tx.Model(&model.Reminder{}).
			Where("handle IN ?", handles).
			Update("delivered_at", claimedAt).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim due reminders: %w", err)
	}
	return due, nil
}

// Release returns claimed reminders to the pending set so a later poll delivers them.
func (r *ReminderStore) Release(ctx context.Context, handles ...string) error {
	if len(handles) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("handle IN ?", handles).
		Update("delivered_at", nil).Error
	if err != nil {
		return fmt.Errorf("failed to release %d reminders: %w", len(handles), err)
	}
	return nil
}
