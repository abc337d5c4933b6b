// Package tracking projects an order status onto the delivery-tracking view:
// label, badge style, progress, cancel eligibility, timeline steps and an
// estimated delivery time. Everything here is a pure function of the order
// and the current time.
package tracking

import (
	"time"

	"github.com/Adeboye22/user-fuelup/models"
)

// StepState is how a timeline step is drawn.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
	StepError     StepState = "error"
)

// Step is one entry of the delivery timeline.
type Step struct {
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	State       StepState  `json:"state"`
	At          *time.Time `json:"at,omitempty"`
}

// Completed reports whether the step is done (an error step counts as done).
func (s Step) Completed() bool {
	return s.State == StepCompleted || s.State == StepError
}

// Tracking is the full projection of one order.
type Tracking struct {
	OrderID           string             `json:"orderId"`
	Status            models.OrderStatus `json:"status"`
	Label             string             `json:"label"`
	Style             models.Style       `json:"style"`
	Progress          int                `json:"progress"`
	Cancellable       bool               `json:"cancellable"`
	DriverAssigned    bool               `json:"driverAssigned"`
	Steps             []Step             `json:"steps"`
	EstimatedDelivery *time.Time         `json:"estimatedDelivery,omitempty"`
}

// Project builds the tracking view of o as seen at now.
func Project(o models.Order, now time.Time) Tracking {
	t := Tracking{
		OrderID:        o.ID,
		Status:         o.Status,
		Label:          o.Status.Label(),
		Style:          o.Status.Style(),
		Progress:       o.Status.Progress(),
		Cancellable:    o.Status.Cancellable(),
		DriverAssigned: o.Status.Reached(models.StatusDriverAssigned),
		Steps:          Timeline(o.Status, o.CreatedAt, o.UpdatedAt),
	}
	if eta, ok := EstimatedDelivery(o.Status, now); ok {
		t.EstimatedDelivery = &eta
	}
	return t
}

// Timeline returns the steps to draw for an order in status s. Steps the
// order has not reached are left out, except the next one when the driver
// has yet to accept or the fuel has yet to leave the depot.
func Timeline(s models.OrderStatus, createdAt, updatedAt time.Time) []Step {
	created := timePtr(createdAt)
	updated := timePtr(updatedAt)

	steps := []Step{{
		Key:         string(models.StatusInitiated),
		Title:       "Order Placed",
		Description: "Your fuel order has been received and is being processed",
		Icon:        "package",
		State:       StepCompleted,
		At:          created,
	}}

	if s.Reached(models.StatusPaid) {
		steps = append(steps, Step{
			Key:         string(models.StatusPaid),
			Title:       "Payment Confirmed",
			Description: "Payment has been successfully processed",
			Icon:        "check-circle",
			State:       StepCompleted,
			At:          updated,
		})
	}

	if s.Reached(models.StatusDriverAssigned) {
		steps = append(steps, Step{
			Key:         string(models.StatusDriverAssigned),
			Title:       "Driver Assigned",
			Description: "A driver has been assigned to your order",
			Icon:        "user",
			State:       StepCompleted,
			At:          updated,
		})
	}

	switch {
	case s.Reached(models.StatusDriverAccepted):
		steps = append(steps, Step{
			Key:         string(models.StatusDriverAccepted),
			Title:       "Driver Accepted",
			Description: "Driver has accepted your order and is preparing for pickup",
			Icon:        "user-check",
			State:       StepCompleted,
			At:          updated,
		})
	case s == models.StatusDriverAssigned:
		steps = append(steps, Step{
			Key:         "driver_pending",
			Title:       "Awaiting Driver Acceptance",
			Description: "Waiting for driver to accept the delivery request",
			Icon:        "timer",
			State:       StepCurrent,
		})
	}

	if s.Reached(models.StatusProcessing) {
		steps = append(steps, Step{
			Key:         string(models.StatusProcessing),
			Title:       "Preparing for Delivery",
			Description: "Your fuel is being prepared and loaded for delivery",
			Icon:        "truck",
			State:       StepCompleted,
			At:          updated,
		})
	}

	switch {
	case s.Reached(models.StatusOutForDelivery):
		state := StepCurrent
		if s == models.StatusDelivered {
			state = StepCompleted
		}
		steps = append(steps, Step{
			Key:         string(models.StatusOutForDelivery),
			Title:       "Out for Delivery",
			Description: "Driver is on the way to your location",
			Icon:        "navigation",
			State:       state,
			At:          updated,
		})
	case s == models.StatusProcessing:
		steps = append(steps, Step{
			Key:         string(models.StatusOutForDelivery),
			Title:       "Out for Delivery",
			Description: "Driver will be on the way soon",
			Icon:        "navigation",
			State:       StepPending,
		})
	}

	if s == models.StatusDelivered {
		steps = append(steps, Step{
			Key:         string(models.StatusDelivered),
			Title:       "Delivered",
			Description: "Your fuel has been successfully delivered",
			Icon:        "check-circle",
			State:       StepCompleted,
			At:          updated,
		})
	}

	if s == models.StatusCancelled {
		steps = append(steps, Step{
			Key:         string(models.StatusCancelled),
			Title:       "Order Cancelled",
			Description: "This order has been cancelled",
			Icon:        "alert-circle",
			State:       StepError,
			At:          updated,
		})
	}

	return steps
}

// EstimatedDelivery returns when the fuel should arrive for an order in
// status s. There is no estimate for finished orders.
func EstimatedDelivery(s models.OrderStatus, now time.Time) (time.Time, bool) {
	var d time.Duration
	switch s {
	case models.StatusDelivered, models.StatusCancelled:
		return time.Time{}, false
	case models.StatusInitiated, models.StatusPaid:
		d = 4 * time.Hour
	case models.StatusDriverAssigned:
		d = 3 * time.Hour
	case models.StatusOutForDelivery:
		d = 45 * time.Minute
	default:
		d = 2 * time.Hour
	}
	return now.Add(d), true
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
