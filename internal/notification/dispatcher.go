package notification

import (
	"context"
	"log"
	"time"

	"factory-maintenance-backend/internal/model"
)

const claimBatchSize = 100

// Dispatcher periodically collects due reminders and feeds them to the worker pool.
type Dispatcher struct {
	reminders *ReminderStore
	pool      *WorkerPool
	interval  time.Duration
	now       func() time.Time
}

// NewDispatcher creates a dispatcher polling every interval.
func NewDispatcher(reminders *ReminderStore, pool *WorkerPool, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Dispatcher{reminders: reminders, pool: pool, interval: interval, now: time.Now}
}

// SetClock replaces time.Now when deciding which reminders are due.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// Run starts the worker pool and polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	log.Println("starting reminder dispatcher...")
	d.pool.Start(ctx)

	d.DispatchDue(ctx)

	timer := time.NewTimer(d.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("reminder dispatcher shutting down")
			d.pool.Wait()
			d.release(ctx, d.pool.Drain())
			return
		case <-timer.C:
			d.DispatchDue(ctx)
			timer.Reset(d.interval)
		}
	}
}

// DispatchDue claims every reminder due by now and dispatches it. It returns the number dispatched.
func (d *Dispatcher) DispatchDue(ctx context.Context) int {
	dispatched := 0
	for {
		due, err := d.reminders.ClaimDue(ctx, d.now(), claimBatchSize)
		if err != nil {
			log.Printf("error collecting due reminders: %v", err)
			return dispatched
		}
		for i, reminder := range due {
			if !d.pool.Dispatch(ctx, reminder) {
				d.release(ctx, due[i:])
				return dispatched
			}
			dispatched++
		}
		if len(due) < claimBatchSize {
			break
		}
	}
	if dispatched > 0 {
		log.Printf("dispatched %d due reminders", dispatched)
	}
	return dispatched
}

// release hands claimed but undelivered reminders back to the store. It runs while ctx
// is ending, so the write ignores its cancellation.
func (d *Dispatcher) release(ctx context.Context, reminders []model.Reminder) {
	if len(reminders) == 0 {
		return
	}
	handles := make([]string, len(reminders))
	for i, reminder := range reminders {
		handles[i] = reminder.Handle
	}
	if err := d.reminders.Release(context.WithoutCancel(ctx), handles...); err != nil {
		log.Printf("lost %d claimed reminders: %v", len(handles), err)
		return
	}
	log.Printf("released %d undelivered reminders", len(handles))
}
