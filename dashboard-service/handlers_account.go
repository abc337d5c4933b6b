package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Adeboye22/user-fuelup/guard"
	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/stores"
)

const notificationLimit = 50

var ticketStatuses = []models.TicketStatus{"ALL", models.TicketOpen, models.TicketResolved, models.TicketClosed}

func (a *App) supportDashboard(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	q := r.URL.Query()

	tickets, err := a.stores.Support.Tickets(r.Context(), sess)
	if a.signedOut(w, r, err) {
		return
	}
	v := view{Title: "Support", Form: q}
	if err != nil {
		v.Error = stores.Message(err, "Failed to fetch tickets")
	}
	v.Data = struct {
		Tickets  []models.Ticket
		Statuses []models.TicketStatus
	}{stores.FilterTickets(tickets, q.Get("search"), q.Get("status")), ticketStatuses}
	a.render(w, r, http.StatusOK, "support", v)
}

func (a *App) createTicketPage(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	cats, err := a.stores.Support.Categories(r.Context(), sess)
	if a.signedOut(w, r, err) {
		return
	}
	v := view{Title: "New support ticket", Data: cats}
	if err != nil {
		v.Error = stores.Message(err, "Failed to fetch categories")
	}
	a.render(w, r, http.StatusOK, "ticket_create", v)
}

func (a *App) createTicket(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	t, err := a.stores.Support.CreateTicket(r.Context(), sess, r.PostForm.Get("categoryId"), r.PostForm.Get("message"))
	if err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		cats, _ := a.stores.Support.Categories(r.Context(), sess)
		a.formError(w, r, "ticket_create", "New support ticket", err, "Failed to create ticket", cats)
		return
	}
	to := "/dashboard/support"
	if t.Key() != "" {
		to = "/dashboard/support/ticket/" + url.PathEscape(t.Key())
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Support ticket created successfully", to)
}

func (a *App) ticketDetail(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	t, err := a.stores.Support.Ticket(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, "Ticket not found", "/dashboard/support")
		return
	}
	a.render(w, r, http.StatusOK, "ticket", view{Title: "Support ticket", Data: t})
}

func (a *App) replyTicket(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	back := "/dashboard/support/ticket/" + url.PathEscape(id)
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Support.Reply(r.Context(), sess, id, r.PostForm.Get("message")); err != nil {
		a.fail(w, r, err, "Failed to send reply", back)
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Reply sent", back)
}

func (a *App) closeTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := "/dashboard/support/ticket/" + url.PathEscape(id)
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Support.CloseTicket(r.Context(), sess, id); err != nil {
		a.fail(w, r, err, "Failed to close ticket", back)
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Ticket closed", back)
}

func (a *App) settingsPage(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	addresses, err := a.stores.Addresses.FetchAddresses(r.Context(), sess)
	if a.signedOut(w, r, err) {
		return
	}
	v := view{Title: "Account settings", Data: addresses}
	if err != nil {
		v.Error = stores.Message(err, "Failed to fetch addresses")
	}
	a.render(w, r, http.StatusOK, "settings", v)
}

func (a *App) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	f := r.PostForm
	err := a.stores.Auth.UpdateProfile(r.Context(), sess, stores.Profile{
		FirstName: f.Get("firstName"),
		LastName:  f.Get("lastName"),
		Phone:     f.Get("phone"),
	})
	if err != nil {
		a.fail(w, r, err, "Failed to update profile. Please try again.", "/dashboard/settings")
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Profile information updated successfully", "/dashboard/settings")
}

func (a *App) changePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	f := r.PostForm
	err := a.stores.Auth.ChangePassword(r.Context(), sess, stores.PasswordChange{
		CurrentPassword: f.Get("currentPassword"),
		NewPassword:     f.Get("newPassword"),
		ConfirmPassword: f.Get("confirmPassword"),
	})
	if err != nil {
		a.fail(w, r, err, "Failed to update password. Please try again.", "/dashboard/settings")
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Password updated successfully", "/dashboard/settings")
}

// addressesFromForm reads the bulk editor rows street0, city0, ... in order.
func addressesFromForm(f url.Values) []models.Address {
	var list []models.Address
	for i := 0; ; i++ {
		n := strconv.Itoa(i)
		if _, ok := f["street"+n]; !ok {
			return list
		}
		list = append(list, models.Address{
			ID:     f.Get("id" + n),
			Street: f.Get("street" + n),
			City:   f.Get("city" + n),
			State:  f.Get("state" + n),
			LGA:    f.Get("lga" + n),
		})
	}
}

func addressFromForm(f url.Values) models.Address {
	return models.Address{
		Street: f.Get("street"),
		City:   f.Get("city"),
		State:  f.Get("state"),
		LGA:    f.Get("lga"),
	}
}

func (a *App) saveAddresses(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Addresses.SaveAddresses(r.Context(), sess, addressesFromForm(r.PostForm)); err != nil {
		a.fail(w, r, err, "Failed to save addresses", "/dashboard/settings")
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Addresses saved successfully", "/dashboard/settings")
}

func (a *App) addressesPage(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	addresses, err := a.stores.Addresses.FetchAddresses(r.Context(), sess)
	if a.signedOut(w, r, err) {
		return
	}
	v := view{Title: "Saved locations", Data: addresses}
	if err != nil {
		v.Error = stores.Message(err, "Failed to fetch addresses")
	}
	a.render(w, r, http.StatusOK, "addresses", v)
}

func (a *App) addAddress(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Addresses.AddAddress(r.Context(), sess, addressFromForm(r.PostForm)); err != nil {
		a.fail(w, r, err, "Failed to add address", "/dashboard/addresses")
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Address added", "/dashboard/addresses")
}

func (a *App) updateAddress(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Addresses.UpdateAddress(r.Context(), sess, chi.URLParam(r, "id"), addressFromForm(r.PostForm)); err != nil {
		a.fail(w, r, err, "Failed to update address", "/dashboard/addresses")
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Address updated", "/dashboard/addresses")
}

func (a *App) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Addresses.SetDefaultAddress(r.Context(), sess, chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, "Failed to set default address", "/dashboard/addresses")
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Default address updated", "/dashboard/addresses")
}

func (a *App) deleteAddress(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Addresses.DeleteAddress(r.Context(), sess, chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, "Failed to delete address", "/dashboard/addresses")
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Address deleted", "/dashboard/addresses")
}

func (a *App) notifications(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	list, err := a.notes.ListByEmail(r.Context(), sess.Email(), notificationLimit)
	v := view{Title: "Notifications", Data: list}
	if err != nil {
		a.log.Error("list notifications", "err", err)
		v.Error = "Failed to load notifications"
	}
	a.render(w, r, http.StatusOK, "notifications", v)
}
