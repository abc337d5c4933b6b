package stores

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Adeboye22/user-fuelup/clients"
	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/validation"
)

const emailNotVerified = "EMAIL_NOT_VERIFIED"

// AuthStore signs users in and out and manages the account flows.
type AuthStore struct {
	base
}

type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func isNotVerified(msg string) bool {
	return strings.EqualFold(strings.TrimSpace(msg), emailNotVerified)
}

// Login exchanges credentials for a token and loads the profile.
func (s *AuthStore) Login(ctx context.Context, sess *Session, email, password string) error {
	email = strings.TrimSpace(email)
	if err := validation.SignIn.Validate(map[string]string{"email": email, "password": password}); err != nil {
		return err
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	env, err := s.api.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) && isNotVerified(apiErr.Message) {
			sess.TempEmail = email
			return ErrEmailNotVerified
		}
		return wrap("login", err)
	}
	if out.AccessToken == "" {
		if isNotVerified(env.Message) {
			sess.TempEmail = email
			return ErrEmailNotVerified
		}
		return errors.New("login failed")
	}

	expiry, err := clients.TokenExpiry(out.AccessToken)
	if err != nil {
		return wrap("login", err)
	}

	var user models.User
	if _, err := s.api.WithToken(out.AccessToken).Get(ctx, "/users/me", &user); err != nil {
		return wrap("load profile", err)
	}

	sess.Token = out.AccessToken
	sess.User = &user
	sess.Authenticated = true
	sess.SessionExpiry = expiry
	sess.ExpiryWarned = false
	sess.CheckedAt = s.api.Now()
	s.log.Info("signed in", "session", sess.ID, "user", user.Email)
	return nil
}

func (s *AuthStore) Register(ctx context.Context, sess *Session, r Registration) error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validation.SignUp.Validate(r); err != nil {
		return err
	}
	if _, err := s.api.Post(ctx, "/auth/signup", r, nil); err != nil {
		return wrap("register", err)
	}
	sess.TempEmail = r.Email
	return nil
}

// CheckAuth confirms the session's token with the API. Any failure signs
// the session out; there are no retries.
func (s *AuthStore) CheckAuth(ctx context.Context, sess *Session) bool {
	if sess.Token == "" {
		sess.User = nil
		sess.Authenticated = false
		return false
	}
	if s.api.IsTokenExpired(sess.Token) {
		s.Logout(ctx, sess, "your session expired")
		return false
	}

	var user models.User
	if _, err := s.client(sess).Get(ctx, "/users/me", &user); err != nil {
		s.log.Warn("auth check failed", "session", sess.ID, "err", err)
		s.Logout(ctx, sess, "")
		return false
	}
	expiry, err := clients.TokenExpiry(sess.Token)
	if err != nil {
		s.Logout(ctx, sess, "")
		return false
	}

	sess.User = &user
	sess.Authenticated = true
	sess.SessionExpiry = expiry
	sess.CheckedAt = s.api.Now()
	return true
}

// Expired reports whether the session has no usable token.
func (s *AuthStore) Expired(sess *Session) bool {
	return sess.Token == "" || s.api.IsTokenExpired(sess.Token)
}

// Now is the clock used for token expiry.
func (s *AuthStore) Now() time.Time {
	return s.api.Now()
}

// Logout clears the signed-in state. reason is shown to the user when the
// sign-out was not their choice.
func (s *AuthStore) Logout(ctx context.Context, sess *Session, reason string) {
	if sess.Token != "" || sess.Authenticated {
		s.publish(ctx, sess, models.Event{Type: models.EventSessionEnded, Reason: reason})
		s.log.Info("signed out", "session", sess.ID, "reason", reason)
	}
	sess.clearAuth()
}

func (s *AuthStore) VerifyEmail(ctx context.Context, sess *Session, email, otp string) error {
	req := map[string]string{"email": strings.TrimSpace(email), "otp": strings.TrimSpace(otp)}
	if err := validation.VerifyEmail.Validate(req); err != nil {
		return err
	}
	if _, err := s.api.Post(ctx, "/auth/signup-verification", req, nil); err != nil {
		return wrap("verify email", err)
	}
	sess.TempOTP = ""
	return nil
}

func (s *AuthStore) ResendOTP(ctx context.Context, sess *Session, email string) error {
	req := map[string]string{"email": strings.TrimSpace(email)}
	if err := validation.Email.Validate(req); err != nil {
		return err
	}
	if _, err := s.api.Post(ctx, "/auth/resend-otp", req, nil); err != nil {
		return wrap("resend otp", err)
	}
	sess.TempEmail = req["email"]
	return nil
}

func (s *AuthStore) ForgotPassword(ctx context.Context, sess *Session, email string) error {
	req := map[string]string{"email": strings.TrimSpace(email)}
	if err := validation.Email.Validate(req); err != nil {
		return err
	}
	sess.TempEmail = req["email"]
	if _, err := s.api.Post(ctx, "/auth/forgot-password", req, nil); err != nil {
		return wrap("forgot password", err)
	}
	return nil
}

func (s *AuthStore) ResetPassword(ctx context.Context, sess *Session, otp, password string) error {
	req := map[string]string{"otp": strings.TrimSpace(otp), "password": password}
	if err := validation.ResetPassword.Validate(req); err != nil {
		return err
	}
	if _, err := s.api.Post(ctx, "/auth/reset-password", req, nil); err != nil {
		return wrap("reset password", err)
	}
	sess.TempOTP = ""
	return nil
}

func (s *AuthStore) UpdateProfile(ctx context.Context, sess *Session, p Profile) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Phone = strings.TrimSpace(p.Phone)
	if err := validation.Profile.Validate(p); err != nil {
		return err
	}
	var user models.User
	if _, err := s.client(sess).Put(ctx, "/users/me", p, &user); err != nil {
		return wrap("update profile", err)
	}
	sess.User = &user
	return nil
}

// ChangePassword checks the form locally before sending the new password.
func (s *AuthStore) ChangePassword(ctx context.Context, sess *Session, pc PasswordChange) error {
	if pc.CurrentPassword == "" {
		return validation.Fail("currentPassword", "Current password is required")
	}
	if pc.NewPassword != pc.ConfirmPassword {
		return validation.Fail("confirmPassword", "Passwords do not match")
	}
	if err := validation.PasswordChange.Validate(pc); err != nil {
		return err
	}
	if _, err := s.client(sess).Patch(ctx, "/users/password-change", map[string]string{"newPassword": pc.NewPassword}, nil); err != nil {
		return wrap("change password", err)
	}
	return nil
}

func (s *AuthStore) ClearTempData(sess *Session) {
	sess.TempEmail = ""
	sess.TempOTP = ""
}
