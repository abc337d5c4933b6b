package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/Adeboye22/user-fuelup/clients"
	"github.com/Adeboye22/user-fuelup/guard"
	"github.com/Adeboye22/user-fuelup/httputil"
	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/stores"
	"github.com/Adeboye22/user-fuelup/tracking"
	"github.com/Adeboye22/user-fuelup/validation"
)

// historyFetchLimit is how many orders the history page pulls before
// filtering and paging locally.
const historyFetchLimit = 100

type dashboardData struct {
	Products  []models.Product
	Active    []models.Order
	Recent    []models.Order
	Addresses []models.Address
	Tracking  *tracking.Tracking
}

func (a *App) dashboardHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := guard.SessionFrom(ctx)
	var data dashboardData
	var problems []string

	products, err := a.stores.Catalog.Products(ctx, sess)
	if a.signedOut(w, r, err) {
		return
	}
	if err != nil {
		problems = append(problems, stores.Message(err, "Failed to fetch fuel products"))
	}
	data.Products = products

	orders, err := a.stores.Orders.FetchOrders(ctx, sess, 1, 10)
	if a.signedOut(w, r, err) {
		return
	}
	if err != nil {
		problems = append(problems, stores.Message(err, "Failed to fetch orders"))
	}
	data.Active = stores.ActiveOrders(orders)
	data.Recent = orders[:min(len(orders), 3)]
	if len(data.Active) > 0 {
		t := tracking.Project(data.Active[0], a.stores.Auth.Now())
		data.Tracking = &t
	}

	addresses, err := a.stores.Addresses.FetchAddresses(ctx, sess)
	if a.signedOut(w, r, err) {
		return
	}
	if err != nil {
		problems = append(problems, stores.Message(err, "Failed to fetch addresses"))
	}
	data.Addresses = addresses

	a.render(w, r, http.StatusOK, "dashboard", view{Title: "Dashboard", Data: data, Error: strings.Join(problems, " ")})
}

type orderFuelData struct {
	Products  []models.Product
	Addresses []models.Address
	Selected  models.Product
	Quote     *models.Quote
	Quantity  int
}

func (a *App) loadOrderForm(r *http.Request, productID string, quantity int) (orderFuelData, error) {
	ctx := r.Context()
	sess := guard.SessionFrom(ctx)
	d := orderFuelData{Quantity: models.ClampQuantity(quantity)}

	products, err := a.stores.Catalog.Products(ctx, sess)
	if err != nil {
		return d, err
	}
	d.Products = products
	for _, p := range products {
		if p.ID == productID || (productID == "" && d.Selected.ID == "") {
			d.Selected = p
		}
	}
	if d.Selected.ID != "" {
		q := models.NewQuote(d.Selected, d.Quantity)
		d.Quote = &q
	}

	addresses, err := a.stores.Addresses.FetchAddresses(ctx, sess)
	if err != nil {
		return d, err
	}
	d.Addresses = addresses
	return d, nil
}

func (a *App) orderFuelPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quantity, _ := strconv.Atoi(q.Get("quantity"))
	d, err := a.loadOrderForm(r, q.Get("product"), quantity)
	if a.signedOut(w, r, err) {
		return
	}
	v := view{Title: "Order fuel", Data: d}
	if err != nil {
		v.Error = stores.Message(err, "Failed to fetch fuel products")
	}
	a.render(w, r, http.StatusOK, "order_fuel", v)
}

func (a *App) createOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	sess := guard.SessionFrom(ctx)
	f := r.PostForm
	quantity, _ := strconv.Atoi(f.Get("quantity"))

	address := strings.TrimSpace(f.Get("orderAddress"))
	if id := f.Get("addressId"); address == "" && id != "" {
		for _, addr := range sess.Addresses {
			if addr.ID == id {
				address = stores.FormatAddress(addr)
			}
		}
	}

	var order models.Order
	_, found, err := a.stores.Catalog.Product(ctx, sess, f.Get("productId"))
	if err == nil && !found && f.Get("productId") != "" {
		err = validation.Fail("productId", "This fuel is no longer available")
	}
	if err == nil {
		order, err = a.stores.Orders.CreateOrder(ctx, sess, stores.OrderRequest{
			ProductID: f.Get("productId"),
			Quantity:  quantity,
			Address:   address,
		})
	}
	if err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		d, _ := a.loadOrderForm(r, f.Get("productId"), quantity)
		a.formError(w, r, "order_fuel", "Order fuel", err, "Failed to create order. Please try again.", d)
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Order created successfully! Complete payment to confirm it.", "/dashboard/orders/"+url.PathEscape(order.ID))
}

// loadOrder fetches the order named in the URL, handling the failure itself
// when it returns false.
func (a *App) loadOrder(w http.ResponseWriter, r *http.Request, param string) (models.Order, bool) {
	sess := guard.SessionFrom(r.Context())
	o, err := a.stores.Orders.GetOrderByID(r.Context(), sess, chi.URLParam(r, param))
	if err != nil {
		a.fail(w, r, err, "Order not found or you don't have permission to view it", "/dashboard/order-history")
		return models.Order{}, false
	}
	return o, true
}

func (a *App) orderDetail(w http.ResponseWriter, r *http.Request) {
	o, ok := a.loadOrder(w, r, "id")
	if !ok {
		return
	}
	t := tracking.Project(o, a.stores.Auth.Now())
	a.render(w, r, http.StatusOK, "order", view{
		Title: "Order " + o.ID,
		Data: struct {
			Order    models.Order
			Tracking tracking.Tracking
		}{o, t},
	})
}

func (a *App) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	back := "/dashboard/orders/" + url.PathEscape(id)
	sess := guard.SessionFrom(r.Context())

	c, err := a.stores.Orders.CancelOrder(r.Context(), sess, id, r.PostForm.Get("reason"))
	if err != nil {
		a.fail(w, r, err, "Failed to cancel order", back)
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Order cancelled successfully. Refund: ₦"+models.FormatNaira(c.RefundAmount), back)
}

func (a *App) payOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := guard.SessionFrom(r.Context())

	link, err := a.stores.Orders.InitiatePayment(r.Context(), sess, id)
	if err == nil && !externalURL(link.Link) {
		err = stores.ErrNoPaymentLink
	}
	if err != nil {
		a.fail(w, r, err, "Failed to initiate payment", "/dashboard/orders/"+url.PathEscape(id))
		return
	}
	http.Redirect(w, r, link.Link, http.StatusSeeOther)
}

func externalURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

var historyStatuses = append([]models.OrderStatus{"All"}, models.AllStatuses()...)

func (a *App) orderHistory(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	q := r.URL.Query()

	orders, err := a.stores.Orders.FetchOrders(r.Context(), sess, 1, historyFetchLimit)
	if a.signedOut(w, r, err) {
		return
	}
	v := view{Title: "Order history", Form: q}
	if err != nil {
		v.Error = stores.Message(err, "Failed to fetch orders")
	}

	page, _ := strconv.Atoi(q.Get("page"))
	p := stores.Paginate(stores.FilterOrders(orders, q.Get("search"), q.Get("status")), page, stores.HistoryPageSize)
	data := struct {
		Page           stores.Page
		Statuses       []models.OrderStatus
		Previous, Next string
	}{Page: p, Statuses: historyStatuses}
	if p.HasPrevious() {
		data.Previous = historyURL(q, p.CurrentPage-1)
	}
	if p.HasNext() {
		data.Next = historyURL(q, p.CurrentPage+1)
	}
	v.Data = data
	a.render(w, r, http.StatusOK, "order_history", v)
}

// historyURL keeps the current filters and moves to page.
func historyURL(q url.Values, page int) string {
	next := url.Values{}
	for _, k := range []string{"search", "status"} {
		if v := q.Get(k); v != "" {
			next.Set(k, v)
		}
	}
	next.Set("page", strconv.Itoa(page))
	return "/dashboard/order-history?" + next.Encode()
}

// deliveryStatus shows the live tracking of one order: the one in the path,
// the one searched for, or the most recent active one.
func (a *App) deliveryStatus(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	if chi.URLParam(r, "orderID") == "" {
		if id := strings.TrimSpace(r.URL.Query().Get("order")); id != "" {
			http.Redirect(w, r, "/dashboard/delivery-status/"+url.PathEscape(id), http.StatusSeeOther)
			return
		}
		orders, err := a.stores.Orders.FetchOrders(r.Context(), sess, 1, 10)
		if a.signedOut(w, r, err) {
			return
		}
		if active := stores.ActiveOrders(orders); len(active) > 0 {
			http.Redirect(w, r, "/dashboard/delivery-status/"+url.PathEscape(active[0].ID), http.StatusSeeOther)
			return
		}
		v := view{Title: "Delivery status"}
		if err != nil {
			v.Error = stores.Message(err, "Failed to fetch orders")
		}
		a.render(w, r, http.StatusOK, "delivery_status", v)
		return
	}

	o, ok := a.loadOrder(w, r, "orderID")
	if !ok {
		return
	}
	t := tracking.Project(o, a.stores.Auth.Now())
	a.render(w, r, http.StatusOK, "delivery_status", view{
		Title: "Delivery status",
		Data: struct {
			Order    models.Order
			Tracking tracking.Tracking
			Stream   string
		}{o, t, "/dashboard/delivery-status/" + url.PathEscape(o.ID) + "/stream"},
	})
}

// trackingStream pushes the order's tracking projection until the client
// goes away or the order is finished. Label and progress travel as datastar
// signals; the rest of the view is re-rendered and patched by id.
func (a *App) trackingStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := guard.SessionFrom(ctx)
	id := chi.URLParam(r, "orderID")
	sse := datastar.NewSSE(w, r)

	push := func() bool {
		o, err := a.stores.Orders.GetOrderByID(ctx, sess, id)
		if err != nil {
			a.log.Warn("tracking stream", "order", id, "err", err)
			return !errors.Is(err, clients.ErrUnauthorized)
		}
		t := tracking.Project(o, a.stores.Auth.Now())
		if err := sse.MarshalAndPatchSignals(t); err != nil {
			return false
		}
		var buf bytes.Buffer
		if err := a.pages["delivery_status"].ExecuteTemplate(&buf, "tracking", t); err != nil {
			a.log.Error("render tracking", "order", id, "err", err)
			return false
		}
		if err := sse.PatchElements(strings.TrimSpace(buf.String())); err != nil {
			return false
		}
		return o.Status.Active()
	}

	if !push() {
		return
	}
	ticker := time.NewTicker(a.cfg.TrackingRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}

func (a *App) trackingJSON(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	o, err := a.stores.Orders.GetOrderByID(r.Context(), sess, chi.URLParam(r, "orderID"))
	if err != nil {
		var apiErr *clients.APIError
		switch {
		case errors.Is(err, clients.ErrUnauthorized):
			httputil.ErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		case errors.Is(err, stores.ErrOrderNotFound),
			errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
			httputil.ErrorResponse(w, http.StatusNotFound, "order not found")
		default:
			a.log.Warn("tracking lookup", "err", err)
			httputil.ErrorResponse(w, http.StatusBadGateway, "tracking is unavailable")
		}
		return
	}
	httputil.JSONResponse(w, http.StatusOK, tracking.Project(o, a.stores.Auth.Now()))
}
