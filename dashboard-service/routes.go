package main

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Adeboye22/user-fuelup/httputil"
)

func (a *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if a.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(accessLog(a.log))
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/healthz", httputil.Healthz)
	r.Get("/robots.txt", a.robots)
	r.Get("/sitemap.xml", a.sitemap)

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.Middleware)
		r.Use(a.guard.AuthGuard)

		r.Get("/", a.home)
		r.Get("/theme/{mode}", a.setTheme)

		r.Group(func(r chi.Router) {
			r.Use(a.guard.Public)
			limited := r.With(a.limiter.Middleware)

			r.Get("/signin", a.signInPage)
			limited.Post("/signin", a.signIn)
			r.Get("/signup", a.signUpPage)
			limited.Post("/signup", a.signUp)
			r.Get("/verify-email", a.verifyEmailPage)
			limited.Post("/verify-email", a.verifyEmail)
			limited.Post("/verify-email/resend", a.resendOTP)
			r.Get("/forgot-password", a.forgotPasswordPage)
			limited.Post("/forgot-password", a.forgotPassword)
			r.Get("/reset-password", a.resetPasswordPage)
			limited.Post("/reset-password", a.resetPassword)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(a.guard.Protected)

			r.Get("/", a.dashboardHome)
			r.Post("/signout", a.signOut)

			r.Get("/order-fuel", a.orderFuelPage)
			r.Post("/order-fuel", a.createOrder)
			r.Get("/orders/{id}", a.orderDetail)
			r.Post("/orders/{id}/cancel", a.cancelOrder)
			r.Post("/orders/{id}/pay", a.payOrder)
			r.Get("/order-history", a.orderHistory)

			r.Get("/delivery-status", a.deliveryStatus)
			r.Get("/delivery-status/{orderID}", a.deliveryStatus)
			r.Get("/delivery-status/{orderID}/stream", a.trackingStream)
			r.Get("/api/orders/{orderID}/tracking", a.trackingJSON)

			r.Get("/support", a.supportDashboard)
			r.Get("/support/create", a.createTicketPage)
			r.Post("/support/create", a.createTicket)
			r.Get("/support/ticket/{id}", a.ticketDetail)
			r.Post("/support/ticket/{id}/reply", a.replyTicket)
			r.Post("/support/ticket/{id}/close", a.closeTicket)

			r.Get("/settings", a.settingsPage)
			r.Post("/settings/profile", a.updateProfile)
			r.Post("/settings/password", a.changePassword)
			r.Post("/settings/addresses", a.saveAddresses)

			r.Get("/addresses", a.addressesPage)
			r.Post("/addresses", a.addAddress)
			r.Post("/addresses/{id}", a.updateAddress)
			r.Post("/addresses/{id}/default", a.setDefaultAddress)
			r.Post("/addresses/{id}/delete", a.deleteAddress)

			r.Get("/notifications", a.notifications)
		})
	})
	return r
}
