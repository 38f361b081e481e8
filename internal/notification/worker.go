package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"factory-maintenance-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// reminderPayload is what the browser service worker receives.
type reminderPayload struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ScheduleID string `json:"scheduleId"`
	FireAt     string `json:"fireAt"`
}

// WorkerPool manages a pool of workers delivering reminders to every push subscription.
type WorkerPool struct {
	size    int
	jobs    chan model.Reminder
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.Reminder, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// SetSender replaces the web push sender.
func (wp *WorkerPool) SetSender(sender NotificationSender) {
	wp.sender = sender
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	for {
		select {
		case reminder := <-wp.jobs:
			log.Printf("worker %d delivering reminder %s for schedule %s", id, reminder.Handle, reminder.ReferenceID)
			wp.deliver(ctx, reminder)
		case <-ctx.Done():
			return
		}
	}
}

// Dispatch hands a reminder to the pool, giving up if ctx ends first.
func (wp *WorkerPool) Dispatch(ctx context.Context, reminder model.Reminder) bool {
	select {
	case wp.jobs <- reminder:
		return true
	case <-ctx.Done():
		return false
	}
}

// Drain removes the reminders still queued after the workers have stopped.
func (wp *WorkerPool) Drain() []model.Reminder {
	var left []model.Reminder
	for {
		select {
		case reminder := <-wp.jobs:
			left = append(left, reminder)
		default:
			return left
		}
	}
}

func (wp *WorkerPool) deliver(ctx context.Context, reminder model.Reminder) {
	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		log.Printf("error fetching push subscriptions for reminder %s: %v", reminder.Handle, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(reminderPayload{
		Title:      reminder.Title,
		Body:       reminder.Body,
		ScheduleID: reminder.ReferenceID,
		FireAt:     reminder.FireAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("error encoding reminder %s: %v", reminder.Handle, err)
		return
	}

	for _, sub := range subscriptions {
		wp.send(ctx, sub, payload)
	}
}

// send sends a single web push notification and drops subscriptions the push service reports as gone.
func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Printf("subscription for endpoint %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
