package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lromero/appointment-assistant/internal/queue"
	"github.com/lromero/appointment-assistant/internal/repository"
	queue_publisher "github.com/lromero/appointment-assistant/internal/service"
)

// Dispatcher polls the reminders table and publishes due reminders to the
// broker.  It replaces an external task scheduler: rows stay unsent until a
// publish succeeds, so a broker outage only delays delivery.
type Dispatcher struct {
	Reminders *repository.ReminderRepo
	Events    *repository.EventRepo
	Loc       *time.Location
	Interval  time.Duration // poll interval, default 30s
}

// Run polls until ctx is cancelled.  Each tick publishes every due reminder
// and marks it sent; failures are logged and retried on the next tick.
func (d *Dispatcher) Run(ctx context.Context) {
	interval := d.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("reminder-dispatcher: polling every %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("reminder-dispatcher: stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context) {
	due, err := d.Reminders.DueBefore(ctx, time.Now(), 100)
	if err != nil {
		log.Printf("reminder-dispatcher: query due reminders failed: %v", err)
		return
	}
	for _, rem := range due {
		ev, err := d.Events.GetByID(ctx, rem.EventID)
		if errors.Is(err, repository.ErrNotFound) {
			// Appointment was cancelled after this reminder was planned;
			// retire the row without notifying anyone.
			if err := d.Reminders.MarkSent(ctx, rem.ID); err != nil {
				log.Printf("reminder-dispatcher: retire reminder %d failed: %v", rem.ID, err)
			}
			continue
		}
		if err != nil {
			log.Printf("reminder-dispatcher: load event %d failed: %v", rem.EventID, err)
			continue
		}

		loc := d.Loc
		if loc == nil {
			loc = time.UTC
		}
		payload := queue.ReminderDueEvent{
			ChatID: rem.ChatID,
			Type:   rem.Kind,
			Event: queue.EventPayload{
				Summary: ev.Summary,
				Start:   ev.StartAt.In(loc).Format(time.RFC3339),
			},
		}
		if err := queue_publisher.PublishReminderDue(ctx, payload); err != nil {
			// Leave unsent; the next tick retries.
			continue
		}
		if err := d.Reminders.MarkSent(ctx, rem.ID); err != nil {
			log.Printf("reminder-dispatcher: mark sent %d failed: %v", rem.ID, err)
		}
	}
}
