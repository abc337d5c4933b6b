package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Adeboye22/user-fuelup/clients"
	"github.com/Adeboye22/user-fuelup/config"
	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/stores"
)

// RetryDelay is how long a failed write holds the consumer before the
// delivery is requeued.
const RetryDelay = 5 * time.Second

// Consumer turns dashboard events into stored notifications.
type Consumer struct {
	notes      stores.NotificationRepository
	log        *slog.Logger
	retryDelay time.Duration
}

func NewConsumer(notes stores.NotificationRepository, log *slog.Logger, retryDelay time.Duration) *Consumer {
	return &Consumer{notes: notes, log: log, retryDelay: retryDelay}
}

// Handle processes one delivery and acks it. Malformed events are dropped;
// a failed write is requeued after retryDelay. Deliveries are handled one at
// a time, so the pause also stops the broker from redelivering in a loop.
func (c *Consumer) Handle(d amqp.Delivery) {
	var ev models.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.log.Error("decode event", "err", err, "body", string(d.Body))
		c.settle(d, "nack", d.Nack(false, false))
		return
	}

	n, ok := ev.Notification()
	if !ok {
		c.log.Debug("event skipped", "event", ev.ID, "type", ev.Type)
		c.settle(d, "ack", d.Ack(false))
		return
	}

	if err := c.notes.Add(context.Background(), n); err != nil {
		c.log.Error("store notification", "event", ev.ID, "err", err, "retry_in", c.retryDelay)
		time.Sleep(c.retryDelay)
		c.settle(d, "requeue", d.Nack(false, true))
		return
	}
	c.log.Info("notification stored", "event", ev.ID, "type", ev.Type, "user", ev.UserEmail)
	c.settle(d, "ack", d.Ack(false))
}

func (c *Consumer) settle(d amqp.Delivery, action string, err error) {
	if err != nil {
		c.log.Error("settle delivery", "action", action, "tag", d.DeliveryTag, "err", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	if cfg.AMQPURL == "" {
		log.Fatalf("FUELUP_AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := stores.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	client := clients.NewAmqpClient(clients.Wrap(conn))
	consumer := NewConsumer(db.Notifications, logger, RetryDelay)
	if err := client.SetupConsumer(cfg.EventsQueue, consumer.Handle); err != nil {
		log.Fatalf("Failed to register a consumer: %v", err)
	}

	logger.Info("waiting for events", "queue", cfg.EventsQueue)
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
	case err := <-closed:
		if err != nil {
			logger.Error("broker connection lost", "err", err)
		}
	}
}
