package main

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// accessLog logs one line per request.
func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", remoteIP(r),
			)
		})
	}
}

type clientLimiter struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	last    time.Time
}

func (c *clientLimiter) touch(now time.Time) {
	c.mu.Lock()
	c.last = now
	c.mu.Unlock()
}

func (c *clientLimiter) idleSince(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.last)
}

// ipLimiter rate limits each client address separately.
type ipLimiter struct {
	rps     rate.Limit
	burst   int
	clients sync.Map // map[string]*clientLimiter
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{rps: rate.Limit(rps), burst: burst}
}

func (l *ipLimiter) get(ip string) *clientLimiter {
	if v, ok := l.clients.Load(ip); ok {
		return v.(*clientLimiter)
	}
	v, _ := l.clients.LoadOrStore(ip, &clientLimiter{
		limiter: rate.NewLimiter(l.rps, l.burst),
		last:    time.Now(),
	})
	return v.(*clientLimiter)
}

func (l *ipLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := l.get(remoteIP(r))
		if !c.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many attempts. Please wait a moment and try again.", http.StatusTooManyRequests)
			return
		}
		c.touch(time.Now())
		next.ServeHTTP(w, r)
	})
}

// Cleanup drops limiters idle for longer than idle.
func (l *ipLimiter) Cleanup(idle time.Duration) {
	now := time.Now()
	l.clients.Range(func(key, val any) bool {
		if val.(*clientLimiter).idleSince(now) > idle {
			l.clients.Delete(key)
		}
		return true
	})
}

// remoteIP is the host part of r.RemoteAddr. Forwarding headers are only
// honoured through middleware.RealIP, which routes installs when the
// service runs behind a trusted proxy.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
