package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lromero/appointment-assistant/internal/mailer"
)

// Notifier is the part of the Telegram client the consumer needs.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// ReminderConsumer connects to RabbitMQ, declares the reminder.due queue
// (durable), and consumes reminder messages.  Each message is turned into a
// Telegram notification, and day_before reminders additionally produce an
// email.  The consumer runs a reconnect loop with capped backoff and keeps
// running across broker restarts; bad payloads are rejected without requeue
// so a poison message cannot wedge the queue.
type ReminderConsumer struct {
	URL      string // broker URL
	Queue    string // queue name, reminder.due
	Telegram Notifier
	Mailer   *mailer.Mailer
}

// Start runs the consume loop.  It only returns when ctx is cancelled.
func (rc *ReminderConsumer) Start(ctx context.Context) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		conn, err := amqp.Dial(rc.URL)
		if err != nil {
			log.Printf("reminder-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = rc.consumeLoop(ctx, conn)
		_ = conn.Close()
		if shutdownErr(err) {
			// ctx cancellation is orderly shutdown, not a broker failure.
			return err
		}
		log.Printf("reminder-consumer: consume loop ended: %v; reconnecting", err)
		time.Sleep(2 * time.Second)
	}
}

// shutdownErr reports whether the consume loop ended because the context was
// cancelled rather than because the broker connection failed.
func shutdownErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (rc *ReminderConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("reminder-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(rc.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(rc.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := rc.handleMessage(ctx, d.Body); err != nil {
				log.Printf("reminder-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (rc *ReminderConsumer) handleMessage(ctx context.Context, body []byte) error {
	var ev ReminderDueEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return Deliver(ctx, ev, rc.Telegram, rc.Mailer)
}

// Deliver sends the notifications for one due reminder.  It is shared by the
// broker consumer and the HTTP task callback so both delivery paths behave
// identically.
func Deliver(ctx context.Context, ev ReminderDueEvent, tg Notifier, m *mailer.Mailer) error {
	if ev.ChatID == 0 {
		return errors.New("missing chat_id")
	}

	title := ev.Event.Summary
	if title == "" {
		title = "Appointment"
	}

	if ev.Type == "day_before" {
		if err := tg.SendMessage(ctx, ev.ChatID,
			fmt.Sprintf("Reminder: %s tomorrow at %s.", title, ev.Event.Start)); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
		if err := m.Send("Day-before reminder",
			fmt.Sprintf("%s is scheduled at %s.", title, ev.Event.Start), ""); err != nil {
			// Mail is secondary; the chat was already notified.
			log.Printf("reminder: send email failed: %v", err)
		}
		return nil
	}

	if err := tg.SendMessage(ctx, ev.ChatID,
		fmt.Sprintf("Reminder: %s starts in 1 hour at %s.", title, ev.Event.Start)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
