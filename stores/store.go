// Package stores holds the client-side state of the dashboard: one
// persisted Session per browser, and stores that call the FuelUp API and
// update that session.
package stores

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Adeboye22/user-fuelup/clients"
	"github.com/Adeboye22/user-fuelup/models"
)

type base struct {
	api    *clients.APIClient
	events clients.EventPublisher
	log    *slog.Logger
}

func newBase(api *clients.APIClient, events clients.EventPublisher, log *slog.Logger) base {
	if events == nil {
		events = clients.NewLogPublisher(log)
	}
	return base{api: api, events: events, log: log}
}

// client returns an API client authenticated as sess.
func (b base) client(sess *Session) *clients.APIClient {
	return b.api.WithToken(sess.Token)
}

func (b base) publish(ctx context.Context, sess *Session, ev models.Event) {
	ev.SessionID = sess.ID
	if ev.UserEmail == "" {
		ev.UserEmail = sess.Email()
	}
	b.events.PublishEvent(ctx, ev)
}

// requireSuccess turns a 2xx answer flagged as failed into an error.
func requireSuccess(env *clients.Envelope, fallback string) error {
	if env == nil || env.Success() {
		return nil
	}
	msg := env.Message
	if msg == "" {
		msg = fallback
	}
	return &clients.APIError{StatusCode: http.StatusOK, Message: msg}
}

// Stores bundles every store over one API client.
type Stores struct {
	Auth      *AuthStore
	Addresses *AddressStore
	Orders    *OrderStore
	Catalog   *Catalog
	Support   *SupportStore
}

func New(api *clients.APIClient, events clients.EventPublisher, log *slog.Logger) *Stores {
	b := newBase(api, events, log)
	return &Stores{
		Auth:      &AuthStore{base: b},
		Addresses: &AddressStore{base: b},
		Orders:    &OrderStore{base: b},
		Catalog:   &Catalog{base: b},
		Support:   &SupportStore{base: b},
	}
}

func wrap(action string, err error) error {
	return fmt.Errorf("%s: %w", action, err)
}
