package models

import (
	"fmt"
	"time"
)

// EventType names a dashboard event published to the events queue.
type EventType string

const (
	EventOrderCreated     EventType = "order.created"
	EventOrderCancelled   EventType = "order.cancelled"
	EventPaymentInitiated EventType = "payment.initiated"
	EventTicketCreated    EventType = "ticket.created"
	EventSessionEnded     EventType = "session.ended"
)

// Event is what the dashboard publishes after a user action succeeds.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	UserEmail string    `json:"user_email,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// Notification is an event rendered for the notifications page.
type Notification struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	UserEmail string    `json:"user_email"`
	Kind      EventType `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification turns the event into the message shown to the user. The
// boolean is false for events that carry no user or are not user-facing.
func (e Event) Notification() (Notification, bool) {
	if e.UserEmail == "" {
		return Notification{}, false
	}
	var msg string
	switch e.Type {
	case EventOrderCreated:
		msg = fmt.Sprintf("Order %s was placed. Total ₦%s.", e.OrderID, FormatNaira(e.Amount))
	case EventOrderCancelled:
		msg = fmt.Sprintf("Order %s was cancelled. Refund ₦%s.", e.OrderID, FormatNaira(e.Amount))
	case EventPaymentInitiated:
		msg = fmt.Sprintf("Payment started for order %s.", e.OrderID)
	case EventTicketCreated:
		msg = fmt.Sprintf("Support ticket %s was opened.", e.TicketID)
	case EventSessionEnded:
		if e.Reason == "" {
			return Notification{}, false
		}
		msg = "You were signed out: " + e.Reason + "."
	default:
		return Notification{}, false
	}
	return Notification{
		EventID:   e.ID,
		UserEmail: e.UserEmail,
		Kind:      e.Type,
		Message:   msg,
		CreatedAt: e.At,
	}, true
}
