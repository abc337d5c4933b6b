package stores

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Adeboye22/user-fuelup/clients"
	"github.com/Adeboye22/user-fuelup/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) PublishEvent(_ context.Context, ev models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStores wires stores to a fake API served by mux.
func newTestStores(t *testing.T, mux *http.ServeMux) (*Stores, *recordingPublisher) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	pub := &recordingPublisher{}
	return New(clients.NewAPIClient(srv.URL), pub, testLogger()), pub
}

func makeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("test"))
	require.NoError(t, err)
	return s
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func success(data any) map[string]any {
	return map[string]any{"status": "success", "message": "ok", "data": data}
}

func failure(msg string) map[string]any {
	return map[string]any{"status": "error", "message": msg}
}

func signedIn(t *testing.T) *Session {
	sess := NewSession()
	sess.Token = makeToken(t, time.Now().Add(time.Hour))
	sess.Authenticated = true
	sess.User = &models.User{FirstName: "Ada", LastName: "Obi", Email: "ada@example.com"}
	return sess
}
