package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewQuote(t *testing.T) {
	petrol := Product{ID: "p1", Name: "Petrol", UnitPrice: 65000}

	q := NewQuote(petrol, 40)

	assert.Equal(t, int64(2600000), q.FuelCost)
	assert.Equal(t, int64(0), q.DeliveryFee)
	assert.Equal(t, int64(52000), q.ServiceFee)
	assert.Equal(t, int64(2652000), q.Total)
}

func TestQuoteServiceFeeMinimum(t *testing.T) {
	cheap := Product{ID: "k1", Name: "Kerosene", UnitPrice: 1000}

	q := NewQuote(cheap, 10)

	assert.Equal(t, int64(10000), q.FuelCost)
	assert.Equal(t, MinServiceFee, q.ServiceFee)
	assert.Equal(t, int64(20000), q.Total)
}

func TestQuoteServiceFeeRoundsDown(t *testing.T) {
	q := NewQuote(Product{UnitPrice: 50049}, 10)

	// 2% of 500490 is 10009.8
	assert.Equal(t, int64(10009), q.ServiceFee)
}

func TestValidQuantity(t *testing.T) {
	assert.True(t, ValidQuantity(10))
	assert.True(t, ValidQuantity(40))
	assert.False(t, ValidQuantity(50))
	assert.False(t, ValidQuantity(250))
	assert.False(t, ValidQuantity(0))
	assert.False(t, ValidQuantity(5))
	assert.False(t, ValidQuantity(15))
	assert.False(t, ValidQuantity(-10))
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 10, ClampQuantity(0))
	assert.Equal(t, 10, ClampQuantity(7))
	assert.Equal(t, 20, ClampQuantity(27))
	assert.Equal(t, 40, ClampQuantity(40))
	assert.Equal(t, 40, ClampQuantity(45))
	assert.Equal(t, 40, ClampQuantity(100))
	assert.Equal(t, 40, ClampQuantity(2e14))
}

func TestQuoteCapsHugeQuantities(t *testing.T) {
	q := NewQuote(Product{UnitPrice: 65000}, 2e14)

	assert.Equal(t, MaxQuantity, q.Quantity)
	assert.Equal(t, int64(2600000), q.FuelCost)
	assert.Equal(t, int64(52000), q.ServiceFee)
	assert.Equal(t, int64(2652000), q.Total)
}

func TestFormatNaira(t *testing.T) {
	assert.Equal(t, "0", FormatNaira(0))
	assert.Equal(t, "100", FormatNaira(10000))
	assert.Equal(t, "12,345", FormatNaira(1234500))
	assert.Equal(t, "12,345.5", FormatNaira(1234550))
	assert.Equal(t, "12,345.05", FormatNaira(1234505))
	assert.Equal(t, "1,000,000", FormatNaira(100000000))
	assert.Equal(t, "-650", FormatNaira(-65000))
}

func TestEventNotification(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	n, ok := Event{ID: "e1", Type: EventOrderCreated, UserEmail: "ada@example.com", OrderID: "o1", Amount: 6630000, At: at}.Notification()
	assert.True(t, ok)
	assert.Equal(t, "Order o1 was placed. Total ₦66,300.", n.Message)
	assert.Equal(t, "ada@example.com", n.UserEmail)
	assert.Equal(t, at, n.CreatedAt)

	_, ok = Event{Type: EventOrderCreated}.Notification()
	assert.False(t, ok, "events without a user are not notifications")

	_, ok = Event{Type: EventSessionEnded, UserEmail: "ada@example.com"}.Notification()
	assert.False(t, ok, "a plain sign-out is not worth a notification")

	n, ok = Event{Type: EventSessionEnded, UserEmail: "ada@example.com", Reason: "your session expired"}.Notification()
	assert.True(t, ok)
	assert.Equal(t, "You were signed out: your session expired.", n.Message)
}
