package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeboye22/user-fuelup/models"
)

func TestLogin(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := makeToken(t, exp)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "ada@example.com", body["email"])
		writeJSON(w, http.StatusOK, success(map[string]string{"accessToken": token}))
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, success(models.User{FirstName: "Ada", Email: "ada@example.com"}))
	})
	s, _ := newTestStores(t, mux)
	sess := NewSession()

	require.NoError(t, s.Auth.Login(context.Background(), sess, " ada@example.com ", "secret"))

	assert.True(t, sess.Authenticated)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, "Ada", sess.User.FirstName)
	assert.True(t, exp.Equal(sess.SessionExpiry))
}

func TestLoginEmailNotVerified(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"error response", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, failure("EMAIL_NOT_VERIFIED"))
		}},
		{"success envelope without token", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "EMAIL_NOT_VERIFIED"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /auth/login", tt.handler)
			s, _ := newTestStores(t, mux)
			sess := NewSession()

			err := s.Auth.Login(context.Background(), sess, "new@example.com", "secret")

			assert.ErrorIs(t, err, ErrEmailNotVerified)
			assert.Equal(t, "new@example.com", sess.TempEmail)
			assert.False(t, sess.Authenticated)
		})
	}
}

func TestLoginRejectsBadInput(t *testing.T) {
	s, _ := newTestStores(t, http.NewServeMux())

	err := s.Auth.Login(context.Background(), NewSession(), "nope", "")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Please enter a valid email address", Message(err, ""))
}

func TestLoginWrongPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, failure("Invalid credentials"))
	})
	s, _ := newTestStores(t, mux)

	err := s.Auth.Login(context.Background(), NewSession(), "ada@example.com", "wrong")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", Message(err, "Login failed"))
}

func TestCheckAuth(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		s, _ := newTestStores(t, http.NewServeMux())
		sess := NewSession()
		sess.User = &models.User{FirstName: "stale"}

		assert.False(t, s.Auth.CheckAuth(context.Background(), sess))
		assert.Nil(t, sess.User)
	})

	t.Run("expired token logs out", func(t *testing.T) {
		s, pub := newTestStores(t, http.NewServeMux())
		sess := signedIn(t)
		sess.Token = makeToken(t, time.Now().Add(-time.Minute))

		assert.False(t, s.Auth.CheckAuth(context.Background(), sess))
		assert.False(t, sess.Authenticated)
		assert.Empty(t, sess.Token)
		require.Len(t, pub.events, 1)
		assert.Equal(t, models.EventSessionEnded, pub.events[0].Type)
		assert.Equal(t, "your session expired", pub.events[0].Reason)
		assert.Equal(t, "ada@example.com", pub.events[0].UserEmail)
	})

	t.Run("server rejects token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, failure("jwt malformed"))
		})
		s, _ := newTestStores(t, mux)
		sess := signedIn(t)

		assert.False(t, s.Auth.CheckAuth(context.Background(), sess))
		assert.False(t, sess.Authenticated)
	})

	t.Run("valid token refreshes user", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, success(models.User{FirstName: "Adaeze", Email: "ada@example.com"}))
		})
		s, _ := newTestStores(t, mux)
		sess := signedIn(t)

		assert.True(t, s.Auth.CheckAuth(context.Background(), sess))
		assert.Equal(t, "Adaeze", sess.User.FirstName)
		assert.False(t, sess.SessionExpiry.IsZero())
	})
}

func TestLogoutKeepsTempData(t *testing.T) {
	s, _ := newTestStores(t, http.NewServeMux())
	sess := signedIn(t)
	sess.TempEmail = "pending@example.com"
	sess.Orders = []models.Order{{ID: "o1"}}
	sess.Addresses = []models.Address{{Street: "1 Marina"}}

	s.Auth.Logout(context.Background(), sess, "")

	assert.False(t, sess.Authenticated)
	assert.Empty(t, sess.Token)
	assert.Nil(t, sess.User)
	assert.Nil(t, sess.Orders)
	assert.Nil(t, sess.Addresses)
	assert.Equal(t, "pending@example.com", sess.TempEmail)
}

func TestChangePassword(t *testing.T) {
	var sent map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /users/password-change", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		writeJSON(w, http.StatusOK, success(nil))
	})
	s, _ := newTestStores(t, mux)
	sess := signedIn(t)
	ctx := context.Background()

	err := s.Auth.ChangePassword(ctx, sess, PasswordChange{NewPassword: "abcdef", ConfirmPassword: "abcdef"})
	assert.Equal(t, "Current password is required", Message(err, ""))

	err = s.Auth.ChangePassword(ctx, sess, PasswordChange{CurrentPassword: "old", NewPassword: "abcdef", ConfirmPassword: "abcdeg"})
	assert.Equal(t, "Passwords do not match", Message(err, ""))

	err = s.Auth.ChangePassword(ctx, sess, PasswordChange{CurrentPassword: "old", NewPassword: "abc", ConfirmPassword: "abc"})
	assert.Equal(t, "Password must be at least 6 characters long", Message(err, ""))
	assert.Nil(t, sent)

	require.NoError(t, s.Auth.ChangePassword(ctx, sess, PasswordChange{CurrentPassword: "old", NewPassword: "abcdef", ConfirmPassword: "abcdef"}))
	assert.Equal(t, map[string]string{"newPassword": "abcdef"}, sent)
}

func TestRegisterAndVerify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, success(nil))
	})
	mux.HandleFunc("POST /auth/signup-verification", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["otp"] != "123456" {
			writeJSON(w, http.StatusBadRequest, failure("Invalid OTP"))
			return
		}
		writeJSON(w, http.StatusOK, success(nil))
	})
	s, _ := newTestStores(t, mux)
	sess := NewSession()
	ctx := context.Background()

	require.NoError(t, s.Auth.Register(ctx, sess, Registration{FirstName: "Ada", LastName: "Obi", Email: "ada@example.com", Password: "secret1"}))
	assert.Equal(t, "ada@example.com", sess.TempEmail)

	err := s.Auth.VerifyEmail(ctx, sess, sess.TempEmail, "000000")
	assert.Equal(t, "Invalid OTP", Message(err, ""))

	assert.NoError(t, s.Auth.VerifyEmail(ctx, sess, sess.TempEmail, "123456"))
}

func TestResetPasswordClearsOTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, success(nil))
	})
	mux.HandleFunc("POST /auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, success(nil))
	})
	s, _ := newTestStores(t, mux)
	sess := NewSession()
	ctx := context.Background()

	require.NoError(t, s.Auth.ForgotPassword(ctx, sess, "ada@example.com"))
	assert.Equal(t, "ada@example.com", sess.TempEmail)

	sess.TempOTP = "4321"
	require.NoError(t, s.Auth.ResetPassword(ctx, sess, sess.TempOTP, "newsecret"))
	assert.Empty(t, sess.TempOTP)

	s.Auth.ClearTempData(sess)
	assert.Empty(t, sess.TempEmail)
}
