package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus(t *testing.T) {
	assert.Equal(t, "Open", TicketOpen.Label())
	assert.Equal(t, "Resolved", TicketResolved.Label())
	assert.Equal(t, StyleBlue, TicketOpen.Style())
	assert.Equal(t, StyleGreen, TicketResolved.Style())
	assert.Equal(t, StyleYellow, TicketStatus("PENDING").Style())
}

func TestTicketKey(t *testing.T) {
	assert.Equal(t, "t1", Ticket{ID: "t1", MongoID: "m1"}.Key())
	assert.Equal(t, "m1", Ticket{MongoID: "m1"}.Key())
}

func TestReplyFromUser(t *testing.T) {
	assert.True(t, Reply{Sender: "user"}.FromUser())
	assert.False(t, Reply{Sender: "admin"}.FromUser())
}
