package clients

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Adeboye22/user-fuelup/models"
)

// EventPublisher emits dashboard events. Publishing is best effort and
// never fails the caller.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev models.Event)
}

func stamp(ev models.Event) models.Event {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	return ev
}

// QueuePublisher sends events to an AMQP queue.
type QueuePublisher struct {
	client AmqpClient
	queue  string
	log    *slog.Logger
}

func NewQueuePublisher(client AmqpClient, queue string, log *slog.Logger) *QueuePublisher {
	return &QueuePublisher{client: client, queue: queue, log: log}
}

func (p *QueuePublisher) PublishEvent(ctx context.Context, ev models.Event) {
	ev = stamp(ev)
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("encode event", "type", ev.Type, "err", err)
		return
	}
	if err := p.client.Publish(ctx, body, p.queue); err != nil {
		p.log.Warn("publish event", "type", ev.Type, "id", ev.ID, "queue", p.queue, "err", err)
		return
	}
	p.log.Debug("event published", "type", ev.Type, "id", ev.ID)
}

// LogPublisher only logs events. Used when no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishEvent(_ context.Context, ev models.Event) {
	ev = stamp(ev)
	p.log.Info("event", "type", ev.Type, "id", ev.ID, "session", ev.SessionID, "order", ev.OrderID, "ticket", ev.TicketID)
}
