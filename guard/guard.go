// Package guard decides which pages a browser may see based on its
// session, and keeps an eye on tokens that are about to run out.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adeboye22/user-fuelup/stores"
)

const (
	DashboardPath = "/dashboard"
	SignInPath    = "/signin"

	// LeaveMessage is the beforeunload prompt shown on dashboard pages.
	LeaveMessage = "Are you sure you want to leave? You will be logged out."

	// DefaultRecheck is how long a server-confirmed session is trusted
	// before Protected asks the API again.
	DefaultRecheck = 5 * time.Minute
)

// authPages redirect to the dashboard when the visitor is signed in.
var authPages = map[string]bool{
	"/signin":          true,
	"/signup":          true,
	"/forgot-password": true,
	"/verify-email":    true,
	"/reset-password":  true,
}

// exempt paths are reachable whatever the auth state.
var exemptPrefixes = []string{"/static/", "/healthz", "/theme/", "/robots.txt", "/sitemap.xml"}

func IsAuthPage(path string) bool {
	return authPages[path]
}

func inDashboard(path string) bool {
	return path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/")
}

func exempt(path string) bool {
	for _, p := range exemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// SafeRedirect returns from when it points inside the dashboard, otherwise
// the dashboard home.
func SafeRedirect(from string) string {
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" || !inDashboard(u.Path) {
		return DashboardPath
	}
	return u.RequestURI()
}

// SignInURL is the sign-in page that returns to path afterwards.
func SignInURL(path string) string {
	return SignInPath + "?from=" + url.QueryEscape(path)
}

// LeavePrompt returns the leave confirmation for the current page, or "".
func LeavePrompt(ctx context.Context) string {
	s, _ := ctx.Value(leavePromptKey).(string)
	return s
}

// Guard holds the route guards. It needs the session to be in the request
// context (see Sessions).
type Guard struct {
	auth    *stores.AuthStore
	monitor *Monitor
	recheck time.Duration
	log     *slog.Logger
}

func New(auth *stores.AuthStore, monitor *Monitor, log *slog.Logger) *Guard {
	return &Guard{auth: auth, monitor: monitor, recheck: DefaultRecheck, log: log}
}

// verify confirms the session with the API when it has not been confirmed
// recently. A failed check signs the session out.
func (g *Guard) verify(ctx context.Context, sess *stores.Session) bool {
	if !sess.Authenticated || sess.Token == "" {
		return false
	}
	if g.auth.Expired(sess) {
		g.auth.Logout(ctx, sess, "your session expired")
		sess.AddFlash(stores.FlashWarning, "Your session has expired. Please sign in again.")
		return false
	}
	if sess.User != nil && g.auth.Now().Sub(sess.CheckedAt) < g.recheck {
		return true
	}
	return g.auth.CheckAuth(ctx, sess)
}

// Protected lets only signed-in sessions through.
func (g *Guard) Protected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		if sess == nil || !g.verify(r.Context(), sess) {
			http.Redirect(w, r, SignInURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		if !inDashboard(r.URL.Path) {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Public sends signed-in sessions away from the auth pages.
func (g *Guard) Public(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		if sess != nil && sess.Token != "" && g.verify(r.Context(), sess) && IsAuthPage(r.URL.Path) {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthGuard wraps the whole site: signed-in sessions are kept inside the
// dashboard, registered with the monitor and shown the leave prompt.
func (g *Guard) AuthGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		path := r.URL.Path
		if sess == nil || !sess.Authenticated || exempt(path) {
			next.ServeHTTP(w, r)
			return
		}

		if g.auth.Expired(sess) {
			g.auth.Logout(r.Context(), sess, "your session expired")
			g.monitor.Untrack(sess.ID)
			if inDashboard(path) {
				sess.AddFlash(stores.FlashWarning, "Your session has expired. Please sign in again.")
				http.Redirect(w, r, SignInPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		g.monitor.Track(sess.ID)
		if !inDashboard(path) {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), leavePromptKey, LeaveMessage)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
