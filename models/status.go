package models

import (
	"unicode"
	"unicode/utf8"
)

// OrderStatus is the server-assigned lifecycle value of an order.
type OrderStatus string

const (
	StatusInitiated      OrderStatus = "initiated"
	StatusPaid           OrderStatus = "paid"
	StatusDriverAssigned OrderStatus = "driver_assigned"
	StatusDriverAccepted OrderStatus = "driver_accepted"
	StatusProcessing     OrderStatus = "processing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// Style is the badge colour bucket of a status.
type Style string

const (
	StyleGreen   Style = "green"
	StyleBlue    Style = "blue"
	StyleYellow  Style = "yellow"
	StyleRed     Style = "red"
	StyleUnknown Style = "gray"
)

type statusInfo struct {
	label       string
	style       Style
	progress    int
	cancellable bool
}

// statusTable is the single source for every status lookup in the dashboard.
var statusTable = map[OrderStatus]statusInfo{
	StatusInitiated:      {"Order Placed", StyleYellow, 15, true},
	StatusPaid:           {"Payment Confirmed", StyleGreen, 30, true},
	StatusDriverAssigned: {"Driver Assigned", StyleBlue, 45, true},
	StatusDriverAccepted: {"Driver Accepted", StyleGreen, 60, false},
	StatusProcessing:     {"Being Prepared", StyleBlue, 75, false},
	StatusOutForDelivery: {"Out for Delivery", StyleBlue, 90, false},
	StatusDelivered:      {"Delivered", StyleGreen, 100, false},
	StatusCancelled:      {"Cancelled", StyleRed, 0, false},
}

// Lifecycle lists the statuses of a successful delivery in order.
var Lifecycle = []OrderStatus{
	StatusInitiated,
	StatusPaid,
	StatusDriverAssigned,
	StatusDriverAccepted,
	StatusProcessing,
	StatusOutForDelivery,
	StatusDelivered,
}

// AllStatuses is Lifecycle plus the cancelled escape, in display order.
func AllStatuses() []OrderStatus {
	return append(append([]OrderStatus(nil), Lifecycle...), StatusCancelled)
}

func (s OrderStatus) String() string {
	return string(s)
}

// Known reports whether s is one of the documented statuses.
func (s OrderStatus) Known() bool {
	_, ok := statusTable[s]
	return ok
}

// Label is the human-readable status. Unknown values fall back to the raw
// string with its first letter upper-cased.
func (s OrderStatus) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return capitalize(string(s))
}

// Style is the badge colour of the status.
func (s OrderStatus) Style() Style {
	if info, ok := statusTable[s]; ok {
		return info.style
	}
	return StyleUnknown
}

// Progress is the delivery progress percentage.
func (s OrderStatus) Progress() int {
	return statusTable[s].progress
}

// Cancellable reports whether the dashboard offers a cancel action. The API
// decides whether the cancellation actually goes through.
func (s OrderStatus) Cancellable() bool {
	return statusTable[s].cancellable
}

// Active reports whether the order is still in flight.
func (s OrderStatus) Active() bool {
	return s != StatusDelivered && s != StatusCancelled
}

// Rank is the position of s in Lifecycle, or -1.
func (s OrderStatus) Rank() int {
	for i, st := range Lifecycle {
		if st == s {
			return i
		}
	}
	return -1
}

// Reached reports whether an order in status s has passed through step.
func (s OrderStatus) Reached(step OrderStatus) bool {
	r := s.Rank()
	return r >= 0 && r >= step.Rank()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}
