package models

import (
	"strings"
	"time"
)

// User is the profile returned by GET /users/me.
type User struct {
	ID              string    `json:"_id,omitempty"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Addresses       []Address `json:"addresses,omitempty"`
}

// FullName joins first and last name, trimming the gap when one is empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Address is a saved delivery location. IsDefault is not sent by the API; the
// first address of the list is the default by convention.
type Address struct {
	ID        string `json:"_id,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	LGA       string `json:"LGA,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// Blank reports whether none of the location fields are filled in.
func (a Address) Blank() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.LGA == ""
}

// Product is a fuel product with its price in kobo.
type Product struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	UnitPrice      int64  `json:"unitPrice"`
	UnitOfMeasure  string `json:"unitOfMeasure,omitempty"`
	StationName    string `json:"stationName,omitempty"`
	FillingStation string `json:"fillingStation,omitempty"`
}

// Unit returns the unit of measure, defaulting to liters.
func (p Product) Unit() string {
	if p.UnitOfMeasure == "" {
		return "liters"
	}
	return p.UnitOfMeasure
}

// Station returns the station label shown next to the price.
func (p Product) Station() string {
	switch {
	case p.StationName != "":
		return p.StationName
	case p.FillingStation != "":
		return p.FillingStation
	default:
		return "NNPC"
	}
}

// OrderItem is one line of an order. The upstream API spells the quantity
// field "qunatity".
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"qunatity"`
	UnitPrice   int64  `json:"unitPrice,omitempty"`
	Price       int64  `json:"price,omitempty"`
}

// Order mirrors a server-owned fuel order. Amounts are in kobo.
type Order struct {
	ID          string      `json:"_id"`
	Items       []OrderItem `json:"orderItems"`
	Address     string      `json:"orderAddress"`
	TotalAmount int64       `json:"totalAmount"`
	ServiceFee  int64       `json:"serviceFee,omitempty"`
	DeliveryFee int64       `json:"deliveryFee,omitempty"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// FirstItem returns the first order line, or a zero item for empty orders.
func (o Order) FirstItem() OrderItem {
	if len(o.Items) == 0 {
		return OrderItem{}
	}
	return o.Items[0]
}

// Pagination is the paging block returned with order lists.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
}

// PaymentLink is the payment gateway redirect returned by /payment/initiation.
type PaymentLink struct {
	OrderID string `json:"orderId"`
	Link    string `json:"link"`
}

// Cancellation is the result of a successful cancel request.
type Cancellation struct {
	OrderID      string `json:"orderId,omitempty"`
	RefundAmount int64  `json:"refundAmount"`
}
