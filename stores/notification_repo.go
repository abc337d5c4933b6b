package stores

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Adeboye22/user-fuelup/models"
)

// NotificationRepository stores the notifications shown on the dashboard.
type NotificationRepository interface {
	Add(ctx context.Context, n models.Notification) error
	ListByEmail(ctx context.Context, email string, limit int) ([]models.Notification, error)
}

type SQLNotificationRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLNotificationRepository(db *sql.DB, dialect Dialect) *SQLNotificationRepository {
	return &SQLNotificationRepository{db: db, dialect: dialect}
}

func (r *SQLNotificationRepository) Migrate(ctx context.Context) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if r.dialect == Postgres {
		id = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS notifications (
			id ` + id + `,
			event_id TEXT NOT NULL UNIQUE,
			user_email TEXT NOT NULL,
			kind TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS notifications_user_email_idx ON notifications (user_email, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate notifications: %w", err)
		}
	}
	return nil
}

// Add inserts n. A redelivered event is ignored.
func (r *SQLNotificationRepository) Add(ctx context.Context, n models.Notification) error {
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO notifications (event_id, user_email, kind, message, created_at)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT (event_id) DO NOTHING`),
		n.EventID, n.UserEmail, string(n.Kind), n.Message, n.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *SQLNotificationRepository) ListByEmail(ctx context.Context, email string, limit int) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(`
		SELECT id, event_id, user_email, kind, message, created_at
		FROM notifications WHERE user_email = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`), email, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var kind string
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.EventID, &n.UserEmail, &kind, &n.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = models.EventType(kind)
		n.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

type MemoryNotificationRepository struct {
	mu     sync.Mutex
	nextID int64
	items  []models.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

func (r *MemoryNotificationRepository) Add(_ context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.EventID == n.EventID {
			return nil
		}
	}
	r.nextID++
	n.ID = r.nextID
	r.items = append(r.items, n)
	return nil
}

func (r *MemoryNotificationRepository) ListByEmail(_ context.Context, email string, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		if n.UserEmail == email {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
