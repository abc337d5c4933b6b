package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/validation"
)

// HistoryPageSize is the number of orders per order-history page.
const HistoryPageSize = 5

// OrderStore reads and mutates the user's orders. The API owns every
// status transition; the store only asks.
type OrderStore struct {
	base
}

// OrderRequest is the order form.
type OrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Address   string `json:"orderAddress"`
}

type orderList struct {
	Orders     []models.Order     `json:"orders"`
	Pagination *models.Pagination `json:"pagination"`
}

// FetchOrders loads one page of the user's orders into the session. The
// API sends either a bare list or {orders, pagination}.
func (s *OrderStore) FetchOrders(ctx context.Context, sess *Session, page, limit int) ([]models.Order, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))

	env, err := s.client(sess).Get(ctx, "/orders/user?"+q.Encode(), nil)
	if err != nil {
		return nil, wrap("fetch orders", err)
	}

	var list orderList
	if data := bytes.TrimSpace(env.Data); len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &list.Orders); err != nil {
			return nil, wrap("decode orders", err)
		}
	} else if err := env.Decode(&list); err != nil {
		return nil, err
	}

	sess.Orders = list.Orders
	sess.Pagination = list.Pagination
	return list.Orders, nil
}

func (s *OrderStore) GetOrderByID(ctx context.Context, sess *Session, id string) (models.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Order{}, ErrOrderNotFound
	}
	var o models.Order
	if _, err := s.client(sess).Get(ctx, "/orders/"+url.PathEscape(id), &o); err != nil {
		return models.Order{}, wrap("get order", err)
	}
	if o.ID == "" {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// CreateOrder places an order for one product line.
func (s *OrderStore) CreateOrder(ctx context.Context, sess *Session, req OrderRequest) (models.Order, error) {
	req.Address = strings.TrimSpace(req.Address)
	if err := validation.Order.Validate(req); err != nil {
		return models.Order{}, err
	}

	body := struct {
		Items   []models.OrderItem `json:"orderItems"`
		Address string             `json:"orderAddress"`
	}{
		Items:   []models.OrderItem{{ProductID: req.ProductID, Quantity: req.Quantity}},
		Address: req.Address,
	}

	var o models.Order
	env, err := s.client(sess).Post(ctx, "/orders", body, &o)
	if err != nil {
		return models.Order{}, wrap("create order", err)
	}
	if err := requireSuccess(env, "Order creation failed"); err != nil {
		return models.Order{}, err
	}
	if o.ID == "" {
		return models.Order{}, fmt.Errorf("order creation failed: no order id returned")
	}

	s.publish(ctx, sess, models.Event{Type: models.EventOrderCreated, OrderID: o.ID, Amount: o.TotalAmount})
	return o, nil
}

// CancelOrder asks the API to cancel an order the customer may still cancel
// and returns the refund in kobo.
func (s *OrderStore) CancelOrder(ctx context.Context, sess *Session, id, reason string) (models.Cancellation, error) {
	reason = strings.TrimSpace(reason)
	if err := validation.Cancellation.Validate(map[string]string{"reason": reason}); err != nil {
		return models.Cancellation{}, err
	}

	o, err := s.GetOrderByID(ctx, sess, id)
	if err != nil {
		return models.Cancellation{}, err
	}
	if !o.Status.Cancellable() {
		return models.Cancellation{}, ErrNotCancellable
	}

	var c models.Cancellation
	body := map[string]string{"reason": reason, "cancelledBy": "customer"}
	if _, err := s.client(sess).Patch(ctx, "/orders/"+url.PathEscape(o.ID)+"/cancel", body, &c); err != nil {
		return models.Cancellation{}, wrap("cancel order", err)
	}
	c.OrderID = o.ID

	s.publish(ctx, sess, models.Event{Type: models.EventOrderCancelled, OrderID: o.ID, Amount: c.RefundAmount, Reason: reason})
	return c, nil
}

// InitiatePayment returns the payment gateway link for an order.
func (s *OrderStore) InitiatePayment(ctx context.Context, sess *Session, orderID string) (models.PaymentLink, error) {
	if strings.TrimSpace(orderID) == "" {
		return models.PaymentLink{}, ErrOrderNotFound
	}
	env, err := s.client(sess).Post(ctx, "/payment/initiation", map[string]string{"orderId": orderID}, nil)
	if err != nil {
		return models.PaymentLink{}, wrap("initiate payment", err)
	}
	link := env.Link
	if link == "" {
		var data struct {
			Link string `json:"link"`
		}
		if err := env.Decode(&data); err == nil {
			link = data.Link
		}
	}
	if link == "" {
		return models.PaymentLink{}, ErrNoPaymentLink
	}

	s.publish(ctx, sess, models.Event{Type: models.EventPaymentInitiated, OrderID: orderID})
	return models.PaymentLink{OrderID: orderID, Link: link}, nil
}

// ActiveOrders keeps orders that are neither delivered nor cancelled.
func ActiveOrders(orders []models.Order) []models.Order {
	var out []models.Order
	for _, o := range orders {
		if o.Status.Active() {
			out = append(out, o)
		}
	}
	return out
}

// FilterOrders matches search against the order id and product names
// (case-insensitive) and status against the order status; "All" or ""
// matches every status.
func FilterOrders(orders []models.Order, search, status string) []models.Order {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []models.Order
	for _, o := range orders {
		if status != "" && !strings.EqualFold(status, "All") && string(o.Status) != status {
			continue
		}
		if search != "" && !orderMatches(o, search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func orderMatches(o models.Order, search string) bool {
	if strings.Contains(strings.ToLower(o.ID), search) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.ProductName), search) {
			return true
		}
	}
	return false
}

// Page is one page of a client-side paginated list.
type Page struct {
	Orders      []models.Order
	CurrentPage int
	TotalPages  int
	Total       int
}

func (p Page) HasPrevious() bool { return p.CurrentPage > 1 }

func (p Page) HasNext() bool { return p.CurrentPage < p.TotalPages }

// Paginate slices orders into pages of size, clamping page into range.
func Paginate(orders []models.Order, page, size int) Page {
	if size <= 0 {
		size = HistoryPageSize
	}
	total := len(orders)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return Page{
		Orders:      orders[start:end],
		CurrentPage: page,
		TotalPages:  pages,
		Total:       total,
	}
}
