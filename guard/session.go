package guard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Adeboye22/user-fuelup/stores"
)

// CookieName is the browser cookie holding the session id.
const CookieName = "fuelup_session"

type ctxKey string

const (
	sessionKey     ctxKey = "session"
	leavePromptKey ctxKey = "leavePrompt"
)

// WithSession attaches sess to ctx.
func WithSession(ctx context.Context, sess *stores.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFrom returns the request's session. Handlers behind Sessions
// always have one.
func SessionFrom(ctx context.Context) *stores.Session {
	sess, _ := ctx.Value(sessionKey).(*stores.Session)
	return sess
}

// Sessions loads the browser's session before the handler runs and saves it
// afterwards when it is new or was changed. Unknown or missing cookies start
// a fresh session.
type Sessions struct {
	repo   stores.SessionRepository
	secure bool
	log    *slog.Logger
}

func NewSessions(repo stores.SessionRepository, secureCookie bool, log *slog.Logger) *Sessions {
	return &Sessions{repo: repo, secure: secureCookie, log: log}
}

func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, fresh := s.load(r)
		before, _ := json.Marshal(sess)
		s.setCookie(w, sess.ID)

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))

		if after, _ := json.Marshal(sess); !fresh && bytes.Equal(before, after) {
			return
		}
		if err := s.repo.Save(context.WithoutCancel(r.Context()), sess); err != nil {
			s.log.Error("save session", "session", sess.ID, "err", err)
		}
	})
}

// Rotate moves sess to a new id, drops the record under the old one and
// reissues the cookie. Call it before the response is written.
func (s *Sessions) Rotate(w http.ResponseWriter, r *http.Request, sess *stores.Session) {
	old := sess.Regenerate()
	if err := s.repo.Delete(context.WithoutCancel(r.Context()), old); err != nil {
		s.log.Error("delete rotated session", "session", old, "err", err)
	}
	s.setCookie(w, sess.ID)
}

// setCookie replaces any session cookie already queued on w.
func (s *Sessions) setCookie(w http.ResponseWriter, id string) {
	h := w.Header()
	var kept []string
	for _, c := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(c, CookieName+"=") {
			kept = append(kept, c)
		}
	}
	h.Del("Set-Cookie")
	for _, c := range kept {
		h.Add("Set-Cookie", c)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) load(r *http.Request) (*stores.Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return stores.NewSession(), true
	}
	sess, err := s.repo.Get(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, stores.ErrSessionNotFound) {
			s.log.Error("load session", "session", c.Value, "err", err)
		}
		return stores.NewSession(), true
	}
	return sess, false
}
