package clients

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AmqpClient defines the AMQP operations the services need.
type AmqpClient interface {
	Publish(ctx context.Context, message []byte, queueName string) error
	SetupConsumer(queueName string, handler func(amqp.Delivery)) error
}

// Channel is the subset of *amqp.Channel used here.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Connection opens channels. *amqp.Connection satisfies it through Wrap.
type Connection interface {
	Channel() (Channel, error)
}

type amqpConnection struct {
	conn *amqp.Connection
}

// Wrap adapts a live AMQP connection.
func Wrap(conn *amqp.Connection) Connection {
	return amqpConnection{conn: conn}
}

func (c amqpConnection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// RealAmqpClient publishes to and consumes from durable queues.
type RealAmqpClient struct {
	conn Connection

	mu       sync.Mutex
	declared map[string]bool
}

// NewAmqpClient creates a new AMQP client over conn.
func NewAmqpClient(conn Connection) *RealAmqpClient {
	return &RealAmqpClient{conn: conn, declared: make(map[string]bool)}
}

func (c *RealAmqpClient) declare(ch Channel, queueName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declared[queueName] {
		return nil
	}
	_, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return err
	}
	c.declared[queueName] = true
	return nil
}

// Publish publishes a JSON message to queueName.
func (c *RealAmqpClient) Publish(ctx context.Context, message []byte, queueName string) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := c.declare(ch, queueName); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",        // exchange
		queueName, // routing key (queue name)
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         message,
		},
	)
}

// SetupConsumer consumes queueName with manual acks; handler owns the ack.
func (c *RealAmqpClient) SetupConsumer(queueName string, handler func(amqp.Delivery)) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}

	if err := c.declare(ch, queueName); err != nil {
		ch.Close()
		return err
	}

	msgs, err := ch.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		return err
	}

	go func() {
		defer ch.Close()
		for d := range msgs {
			handler(d)
		}
	}()

	return nil
}
