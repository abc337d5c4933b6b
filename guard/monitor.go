package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Adeboye22/user-fuelup/stores"
)

const (
	DefaultPollInterval = 30 * time.Second
	DefaultWarnWithin   = 5 * time.Minute
)

// Monitor polls the signed-in sessions it has seen, signs out the expired
// ones and warns those about to expire.
type Monitor struct {
	repo       stores.SessionRepository
	auth       *stores.AuthStore
	interval   time.Duration
	warnWithin time.Duration
	log        *slog.Logger

	mu      sync.Mutex
	tracked map[string]struct{}
}

func NewMonitor(repo stores.SessionRepository, auth *stores.AuthStore, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		repo:       repo,
		auth:       auth,
		interval:   interval,
		warnWithin: DefaultWarnWithin,
		log:        log,
		tracked:    make(map[string]struct{}),
	}
}

func (m *Monitor) Track(id string) {
	m.mu.Lock()
	m.tracked[id] = struct{}{}
	m.mu.Unlock()
}

func (m *Monitor) Untrack(id string) {
	m.mu.Lock()
	delete(m.tracked, id)
	m.mu.Unlock()
}

func (m *Monitor) Tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracked)
}

func (m *Monitor) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.tracked))
	for id := range m.tracked {
		ids = append(ids, id)
	}
	return ids
}

// Run polls until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Info("session monitor started", "interval", m.interval)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("session monitor stopped")
			return
		case <-ticker.C:
			m.CheckOnce(ctx)
		}
	}
}

// CheckOnce runs a single poll over the tracked sessions.
func (m *Monitor) CheckOnce(ctx context.Context) {
	for _, id := range m.snapshot() {
		if err := m.check(ctx, id); err != nil {
			m.log.Error("session check", "session", id, "err", err)
		}
	}
}

func (m *Monitor) check(ctx context.Context, id string) error {
	sess, err := m.repo.Get(ctx, id)
	if errors.Is(err, stores.ErrSessionNotFound) {
		m.Untrack(id)
		return nil
	}
	if err != nil {
		return err
	}
	if !sess.Authenticated {
		m.Untrack(id)
		return nil
	}

	if m.auth.Expired(sess) {
		m.log.Info("session expired", "session", id)
		m.auth.Logout(ctx, sess, "your session expired")
		sess.AddFlash(stores.FlashWarning, "Your session has expired. Please sign in again.")
		m.Untrack(id)
		return m.repo.Save(ctx, sess)
	}

	left := sess.SessionExpiry.Sub(m.auth.Now())
	if left > 0 && left < m.warnWithin && !sess.ExpiryWarned {
		m.log.Warn("session expiring soon", "session", id, "left", left.Round(time.Second))
		minutes := int(math.Ceil(left.Minutes()))
		sess.AddFlash(stores.FlashWarning, fmt.Sprintf("Your session will expire in %d minute(s). Save your work and sign in again.", minutes))
		sess.ExpiryWarned = true
		return m.repo.Save(ctx, sess)
	}
	return nil
}
