package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Adeboye22/user-fuelup/models"
)

// Mocks for RabbitMQ components
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	argsCall := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return argsCall.Get(0).(amqp.Queue), argsCall.Error(1)
}

func (m *MockChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	argsCall := m.Called(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
	return argsCall.Get(0).(<-chan amqp.Delivery), argsCall.Error(1)
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return nil
}

type MockConnection struct {
	mock.Mock
}

func (m *MockConnection) Channel() (Channel, error) {
	args := m.Called()
	return args.Get(0).(*MockChannel), args.Error(1)
}

func TestPublishDeclaresQueueOnce(t *testing.T) {
	conn := &MockConnection{}
	ch := &MockChannel{}
	conn.On("Channel").Return(ch, nil)
	ch.On("QueueDeclare", "dashboard_events", true, false, false, false, mock.Anything).Return(amqp.Queue{Name: "dashboard_events"}, nil).Once()
	ch.On("PublishWithContext", "", "dashboard_events", false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
		return p.ContentType == "application/json" && string(p.Body) == `{"a":1}`
	})).Return(nil).Twice()

	client := NewAmqpClient(conn)
	require.NoError(t, client.Publish(context.Background(), []byte(`{"a":1}`), "dashboard_events"))
	require.NoError(t, client.Publish(context.Background(), []byte(`{"a":1}`), "dashboard_events"))

	ch.AssertExpectations(t)
}

func TestPublishChannelError(t *testing.T) {
	conn := &MockConnection{}
	conn.On("Channel").Return((*MockChannel)(nil), errors.New("connection closed"))

	err := NewAmqpClient(conn).Publish(context.Background(), []byte(`{}`), "q")
	assert.EqualError(t, err, "connection closed")
}

func TestSetupConsumerDeliversMessages(t *testing.T) {
	conn := &MockConnection{}
	ch := &MockChannel{}
	conn.On("Channel").Return(ch, nil)
	ch.On("QueueDeclare", "dashboard_events", true, false, false, false, mock.Anything).Return(amqp.Queue{}, nil)

	deliveries := make(chan amqp.Delivery)
	ch.On("Consume", "dashboard_events", "", false, false, false, false, mock.Anything).Return((<-chan amqp.Delivery)(deliveries), nil)

	received := make(chan []byte, 1)
	err := NewAmqpClient(conn).SetupConsumer("dashboard_events", func(d amqp.Delivery) {
		received <- d.Body
	})
	require.NoError(t, err)

	deliveries <- amqp.Delivery{Body: []byte(`{"type":"order.created"}`)}
	close(deliveries)

	assert.Equal(t, `{"type":"order.created"}`, string(<-received))
}

type recordingClient struct {
	queue string
	body  []byte
	err   error
}

func (r *recordingClient) Publish(_ context.Context, message []byte, queueName string) error {
	r.queue = queueName
	r.body = message
	return r.err
}

func (r *recordingClient) SetupConsumer(string, func(amqp.Delivery)) error { return nil }

func TestQueuePublisherStampsEvents(t *testing.T) {
	rec := &recordingClient{}
	pub := NewQueuePublisher(rec, "dashboard_events", slog.New(slog.NewTextHandler(io.Discard, nil)))

	pub.PublishEvent(context.Background(), models.Event{Type: models.EventOrderCreated, OrderID: "o1"})

	assert.Equal(t, "dashboard_events", rec.queue)
	var ev models.Event
	require.NoError(t, json.Unmarshal(rec.body, &ev))
	assert.Equal(t, models.EventOrderCreated, ev.Type)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.At.IsZero())
}

func TestQueuePublisherSwallowsErrors(t *testing.T) {
	rec := &recordingClient{err: errors.New("broker down")}
	pub := NewQueuePublisher(rec, "q", slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotPanics(t, func() {
		pub.PublishEvent(context.Background(), models.Event{Type: models.EventTicketCreated})
	})
}
