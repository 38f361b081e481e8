package notification

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-maintenance-backend/internal/model"
)

func TestDispatcher_DispatchDue(t *testing.T) {
	ctx := context.Background()
	gormDB := newSQLiteDB(t)
	reminders := NewReminderStore(gormDB)
	pool := NewWorkerPool(4, gormDB, &webpush.Options{})
	d := NewDispatcher(reminders, pool, time.Minute)
	d.now = func() time.Time { return fireAt }

	_, err := reminders.ScheduleReminder(ctx, "s1", "t", "b", fireAt.Add(-time.Minute))
	require.NoError(t, err)
	_, err = reminders.ScheduleReminder(ctx, "s2", "t", "b", fireAt.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 1, d.DispatchDue(ctx))
	select {
	case job := <-pool.jobs:
		assert.Equal(t, "s1", job.ReferenceID)
	default:
		t.Fatal("expected a dispatched reminder")
	}

	assert.Equal(t, 0, d.DispatchDue(ctx))
}

func TestDispatcher_RunDeliversAndStops(t *testing.T) {
	gormDB := newSQLiteDB(t)
	require.NoError(t, gormDB.Create(&model.PushSubscription{
		Endpoint: "https://example.com/push", P256DH: "p", Auth: "a", CreatedAt: fireAt,
	}).Error)

	reminders := NewReminderStore(gormDB)
	_, err := reminders.ScheduleReminder(context.Background(), "s1", "Maintenance reminder", "due", fireAt)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	pool := NewWorkerPool(1, gormDB, &webpush.Options{})
	pool.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			wg.Done()
			return response(http.StatusCreated), nil
		},
	}

	d := NewDispatcher(reminders, pool, time.Hour)
	d.now = func() time.Time { return fireAt }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	wg.Wait()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDispatcher_ReleasesUndispatchedReminders(t *testing.T) {
	gormDB := newSQLiteDB(t)
	reminders := NewReminderStore(gormDB)
	// Not started: the single buffered slot takes one reminder and the rest block.
	pool := NewWorkerPool(1, gormDB, &webpush.Options{})
	d := NewDispatcher(reminders, pool, time.Minute)
	d.now = func() time.Time { return fireAt }

	var handles []string
	for i, ref := range []string{"s1", "s2", "s3"} {
		handle, err := reminders.ScheduleReminder(context.Background(), ref, "t", "b", fireAt.Add(time.Duration(i-3)*time.Minute))
		require.NoError(t, err)
		handles = append(handles, handle)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.Equal(t, 1, d.DispatchDue(ctx))

	for i, handle := range handles {
		got, err := reminders.Get(context.Background(), handle)
		require.NoError(t, err)
		require.NotNil(t, got)
		if i == 0 {
			assert.NotNil(t, got.DeliveredAt, "queued reminder stays claimed")
		} else {
			assert.Nil(t, got.DeliveredAt, "undispatched reminder %d is released", i)
		}
	}

	// On shutdown whatever is still queued goes back as well.
	queued := pool.Drain()
	require.Len(t, queued, 1)
	assert.Equal(t, handles[0], queued[0].Handle)
	d.release(ctx, queued)

	got, err := reminders.Get(context.Background(), handles[0])
	require.NoError(t, err)
	assert.Nil(t, got.DeliveredAt)
	assert.Empty(t, pool.Drain())
}
