package models

import (
	"strings"
	"time"
)

// TicketStatus is the support ticket state as sent by the API.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "OPEN"
	TicketClosed   TicketStatus = "CLOSED"
	TicketResolved TicketStatus = "RESOLVED"
)

// Label is the status as shown on badges: "OPEN" -> "Open".
func (s TicketStatus) Label() string {
	return capitalize(strings.ToLower(string(s)))
}

// Style is the badge colour of a ticket status.
func (s TicketStatus) Style() Style {
	switch s {
	case TicketOpen:
		return StyleBlue
	case TicketClosed:
		return StyleUnknown
	case TicketResolved:
		return StyleGreen
	default:
		return StyleYellow
	}
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Reply struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"senderName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromUser reports whether the reply was written by the customer.
func (r Reply) FromUser() bool {
	return r.Sender == "user"
}

type Ticket struct {
	ID         string       `json:"id"`
	MongoID    string       `json:"_id,omitempty"`
	CategoryID string       `json:"categoryId,omitempty"`
	Category   string       `json:"category,omitempty"`
	Message    string       `json:"message"`
	Status     TicketStatus `json:"status"`
	Replies    []Reply      `json:"replies,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Key is the identifier to use in ticket URLs.
func (t Ticket) Key() string {
	if t.ID != "" {
		return t.ID
	}
	return t.MongoID
}
