package models

import (
	"strconv"
	"strings"
)

const (
	// MinQuantity is the smallest orderable volume.
	MinQuantity = 10
	// MaxQuantity is the largest volume one order can carry.
	MaxQuantity = 40
	// QuantityStep is the increment between orderable volumes.
	QuantityStep = 10
	// MinServiceFee is 100 NGN in kobo.
	MinServiceFee int64 = 10000
	// ServiceFeePercent is applied to the fuel cost.
	ServiceFeePercent = 2
)

// Quote is the price breakdown shown before an order is placed. All amounts
// are in kobo.
type Quote struct {
	Product     Product `json:"product"`
	Quantity    int     `json:"quantity"`
	FuelCost    int64   `json:"fuelCost"`
	DeliveryFee int64   `json:"deliveryFee"`
	ServiceFee  int64   `json:"serviceFee"`
	Total       int64   `json:"total"`
}

// NewQuote prices quantity units of p. quantity is clamped to the orderable
// range first.
func NewQuote(p Product, quantity int) Quote {
	quantity = ClampQuantity(quantity)
	fuel := p.UnitPrice * int64(quantity)
	if fuel < 0 {
		fuel = 0
	}
	service := fuel * ServiceFeePercent / 100
	if service < MinServiceFee {
		service = MinServiceFee
	}
	q := Quote{
		Product:     p,
		Quantity:    quantity,
		FuelCost:    fuel,
		DeliveryFee: 0,
		ServiceFee:  service,
	}
	q.Total = q.FuelCost + q.DeliveryFee + q.ServiceFee
	return q
}

// ValidQuantity reports whether quantity is a multiple of QuantityStep
// between MinQuantity and MaxQuantity.
func ValidQuantity(quantity int) bool {
	return quantity >= MinQuantity && quantity <= MaxQuantity && quantity%QuantityStep == 0
}

// ClampQuantity rounds quantity down to a step and keeps it between the
// minimum and the maximum.
func ClampQuantity(quantity int) int {
	quantity -= quantity % QuantityStep
	switch {
	case quantity < MinQuantity:
		return MinQuantity
	case quantity > MaxQuantity:
		return MaxQuantity
	}
	return quantity
}

// FormatNaira renders a kobo amount as naira with thousands separators,
// keeping kobo only when non-zero: 1234500 -> "12,345", 1234550 -> "12,345.5".
func FormatNaira(kobo int64) string {
	neg := kobo < 0
	if neg {
		kobo = -kobo
	}
	whole := strconv.FormatInt(kobo/100, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac := kobo % 100; frac != 0 {
		f := strconv.FormatInt(frac+100, 10)[1:]
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(f, "0"))
	}
	return b.String()
}
