package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/Adeboye22/user-fuelup/models"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashWarning FlashKind = "warning"
	FlashInfo    FlashKind = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Session is the client state of one browser: authentication, the cached
// store data and pending flashes. It is persisted after every request.
type Session struct {
	ID            string             `json:"id"`
	Token         string             `json:"token,omitempty"`
	User          *models.User       `json:"user,omitempty"`
	Authenticated bool               `json:"authenticated"`
	SessionExpiry time.Time          `json:"sessionExpiry,omitempty"`
	ExpiryWarned  bool               `json:"expiryWarned,omitempty"`
	CheckedAt     time.Time          `json:"checkedAt,omitempty"`
	TempEmail     string             `json:"tempEmail,omitempty"`
	TempOTP       string             `json:"tempOtp,omitempty"`
	Addresses     []models.Address   `json:"addresses,omitempty"`
	Orders        []models.Order     `json:"orders,omitempty"`
	Pagination    *models.Pagination `json:"pagination,omitempty"`
	Flashes       []Flash            `json:"flashes,omitempty"`
	Theme         string             `json:"theme"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString(), Theme: ThemeDark}
}

// Regenerate gives the session a new id and returns the old one.
func (s *Session) Regenerate() string {
	old := s.ID
	s.ID = uuid.NewString()
	return old
}

func (s *Session) AddFlash(kind FlashKind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// PopFlashes returns the pending flashes and clears them.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

// Email is the signed-in user's email, or the pending one during sign-up.
func (s *Session) Email() string {
	if s.User != nil && s.User.Email != "" {
		return s.User.Email
	}
	return s.TempEmail
}

// clearAuth drops everything tied to the signed-in user. Temp sign-up data
// survives so a verification flow can continue.
func (s *Session) clearAuth() {
	s.Token = ""
	s.User = nil
	s.Authenticated = false
	s.SessionExpiry = time.Time{}
	s.ExpiryWarned = false
	s.CheckedAt = time.Time{}
	s.Addresses = nil
	s.Orders = nil
	s.Pagination = nil
}
