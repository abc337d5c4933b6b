package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Adeboye22/user-fuelup/guard"
	"github.com/Adeboye22/user-fuelup/stores"
	"github.com/Adeboye22/user-fuelup/validation"
)

func (a *App) signInPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "signin", view{Title: "Sign in", Data: r.URL.Query().Get("from")})
}

func (a *App) signIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	from := r.PostForm.Get("from")

	err := a.stores.Auth.Login(r.Context(), sess, r.PostForm.Get("email"), r.PostForm.Get("password"))
	switch {
	case errors.Is(err, stores.ErrEmailNotVerified):
		a.flashRedirect(w, r, stores.FlashWarning, "Please verify your email address to continue", "/verify-email")
		return
	case err != nil:
		a.formError(w, r, "signin", "Sign in", err, "Login failed. Please check your credentials.", from)
		return
	}

	a.sessions.Rotate(w, r, sess)
	a.monitor.Track(sess.ID)
	a.flashRedirect(w, r, stores.FlashSuccess, "Welcome back, "+sess.User.FirstName+"!", guard.SafeRedirect(from))
}

func (a *App) signUpPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "signup", view{Title: "Create an account"})
}

func (a *App) signUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := r.PostForm
	if f.Get("password") != f.Get("confirmPassword") {
		a.formError(w, r, "signup", "Create an account", validation.Fail("confirmPassword", "Passwords do not match"), "", nil)
		return
	}

	sess := guard.SessionFrom(r.Context())
	err := a.stores.Auth.Register(r.Context(), sess, stores.Registration{
		FirstName: strings.TrimSpace(f.Get("firstName")),
		LastName:  strings.TrimSpace(f.Get("lastName")),
		Email:     f.Get("email"),
		Phone:     strings.TrimSpace(f.Get("phone")),
		Password:  f.Get("password"),
	})
	if err != nil {
		a.formError(w, r, "signup", "Create an account", err, "Registration failed. Please try again.", nil)
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "Account created! Enter the code we sent to your email.", "/verify-email")
}

func (a *App) verifyEmailPage(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	a.render(w, r, http.StatusOK, "verify_email", view{Title: "Verify your email", Data: sess.TempEmail})
}

func (a *App) verifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	email := r.PostForm.Get("email")
	if email == "" {
		email = sess.TempEmail
	}

	if err := a.stores.Auth.VerifyEmail(r.Context(), sess, email, r.PostForm.Get("otp")); err != nil {
		a.formError(w, r, "verify_email", "Verify your email", err, "Verification failed. Please try again.", email)
		return
	}
	a.stores.Auth.ClearTempData(sess)
	a.flashRedirect(w, r, stores.FlashSuccess, "Email verified successfully! You can now sign in.", guard.SignInPath)
}

func (a *App) resendOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	email := r.PostForm.Get("email")
	if email == "" {
		email = sess.TempEmail
	}

	if err := a.stores.Auth.ResendOTP(r.Context(), sess, email); err != nil {
		a.fail(w, r, err, "Could not resend the code. Please try again.", "/verify-email")
		return
	}
	a.flashRedirect(w, r, stores.FlashInfo, "A new code has been sent to "+sess.TempEmail, "/verify-email")
}

func (a *App) forgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "forgot_password", view{Title: "Forgot password"})
}

func (a *App) forgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	if err := a.stores.Auth.ForgotPassword(r.Context(), sess, r.PostForm.Get("email")); err != nil {
		a.formError(w, r, "forgot_password", "Forgot password", err, "Could not send the reset code. Please try again.", nil)
		return
	}
	a.flashRedirect(w, r, stores.FlashSuccess, "We sent a reset code to "+sess.TempEmail, "/reset-password")
}

func (a *App) resetPasswordPage(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	if sess.TempEmail == "" {
		a.flashRedirect(w, r, stores.FlashInfo, "Enter your email to receive a reset code.", "/forgot-password")
		return
	}
	a.render(w, r, http.StatusOK, "reset_password", view{Title: "Reset password", Data: sess.TempEmail})
}

func (a *App) resetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	f := r.PostForm
	if f.Get("password") != f.Get("confirmPassword") {
		a.formError(w, r, "reset_password", "Reset password", validation.Fail("confirmPassword", "Passwords do not match"), "", sess.TempEmail)
		return
	}

	if err := a.stores.Auth.ResetPassword(r.Context(), sess, f.Get("otp"), f.Get("password")); err != nil {
		a.formError(w, r, "reset_password", "Reset password", err, "Password reset failed. Please try again.", sess.TempEmail)
		return
	}
	a.stores.Auth.ClearTempData(sess)
	a.flashRedirect(w, r, stores.FlashSuccess, "Password reset successfully. Please sign in.", guard.SignInPath)
}

func (a *App) signOut(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	a.stores.Auth.Logout(r.Context(), sess, "")
	a.monitor.Untrack(sess.ID)
	a.sessions.Rotate(w, r, sess)
	a.flashRedirect(w, r, stores.FlashSuccess, "You have been signed out.", guard.SignInPath)
}
