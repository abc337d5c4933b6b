package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adeboye22/user-fuelup/config"
	"github.com/Adeboye22/user-fuelup/guard"
	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/stores"
	"github.com/Adeboye22/user-fuelup/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// App is everything a request handler needs. One App serves the whole
// process; per-browser state lives in the request's session.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	stores   *stores.Stores
	sessions *guard.Sessions
	guard    *guard.Guard
	monitor  *guard.Monitor
	notes    stores.NotificationRepository
	limiter  *ipLimiter
	pages    map[string]*template.Template
}

func NewApp(cfg *config.Config, log *slog.Logger, st *stores.Stores, repo stores.SessionRepository, notes stores.NotificationRepository) (*App, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	monitor := guard.NewMonitor(repo, st.Auth, cfg.SessionPoll, log)
	return &App{
		cfg:      cfg,
		log:      log,
		stores:   st,
		sessions: guard.NewSessions(repo, cfg.CookieSecure, log),
		guard:    guard.New(st.Auth, monitor, log),
		monitor:  monitor,
		notes:    notes,
		limiter:  newIPLimiter(cfg.RateRPS, cfg.RateBurst),
		pages:    pages,
	}, nil
}

var funcs = template.FuncMap{
	"naira":         models.FormatNaira,
	"productColor":  stores.ProductColor,
	"formatAddress": stores.FormatAddress,
	"date":          formatDate,
	"json":          toJSON,
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func formatDate(v any) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return ""
		}
		t = *x
	}
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

// parsePages pairs every page template with the shared layout.
func parsePages() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := strings.TrimSuffix(strings.TrimPrefix(name, "templates/"), ".html")
		if base == "layout" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[base] = t
	}
	return pages, nil
}

// view is the data every page template receives.
type view struct {
	Title       string
	Path        string
	Theme       string
	User        *models.User
	Flashes     []stores.Flash
	Dashboard   bool
	LeavePrompt string
	Form        url.Values
	Errors      *validation.Error
	Error       string
	Data        any
}

// render writes page with v, filling in the per-request layout fields.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	t, ok := a.pages[page]
	if !ok {
		a.log.Error("unknown page", "page", page)
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}

	sess := guard.SessionFrom(r.Context())
	v.Path = r.URL.Path
	v.Dashboard = strings.HasPrefix(r.URL.Path, guard.DashboardPath)
	v.LeavePrompt = guard.LeavePrompt(r.Context())
	if v.Form == nil {
		v.Form = url.Values{}
	}
	if sess != nil {
		v.Theme = sess.Theme
		v.User = sess.User
		v.Flashes = sess.PopFlashes()
	}
	if v.Theme == "" {
		v.Theme = stores.ThemeDark
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", v); err != nil {
		a.log.Error("render", "page", page, "err", err)
	}
}

// formError renders page again with the submitted form and err.
func (a *App) formError(w http.ResponseWriter, r *http.Request, page, title string, err error, fallback string, data any) {
	v := view{Title: title, Form: r.PostForm, Data: data, Error: stores.Message(err, fallback)}
	var verr *validation.Error
	if errors.As(err, &verr) {
		v.Errors = verr
	}
	a.render(w, r, http.StatusUnprocessableEntity, page, v)
}

// flashRedirect queues a flash for the next page and redirects there.
func (a *App) flashRedirect(w http.ResponseWriter, r *http.Request, kind stores.FlashKind, msg, to string) {
	if sess := guard.SessionFrom(r.Context()); sess != nil && msg != "" {
		sess.AddFlash(kind, msg)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// signedOut handles an API rejection of the session's token. It returns
// false when err is something else.
func (a *App) signedOut(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, stores.ErrUnauthorized) {
		return false
	}
	sess := guard.SessionFrom(r.Context())
	a.stores.Auth.Logout(r.Context(), sess, "your session expired")
	a.monitor.Untrack(sess.ID)
	sess.AddFlash(stores.FlashWarning, "Your session has expired. Please sign in again.")
	http.Redirect(w, r, guard.SignInURL(r.URL.RequestURI()), http.StatusSeeOther)
	return true
}

// fail reports a failed action: a flash on the page at to, or a sign-in
// redirect when the token was rejected.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, fallback, to string) {
	if a.signedOut(w, r, err) {
		return
	}
	if !errors.Is(err, validation.ErrInvalid) {
		a.log.Warn("request failed", "path", r.URL.Path, "err", err)
	}
	a.flashRedirect(w, r, stores.FlashError, stores.Message(err, fallback), to)
}
