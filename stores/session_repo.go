package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// SessionRepository persists sessions between requests.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

// SQLSessionRepository keeps sessions in the sessions table. The session is
// stored as a JSON document; authenticated and expires_at are copied out for
// housekeeping queries.
type SQLSessionRepository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLSessionRepository(db *sql.DB, dialect Dialect) *SQLSessionRepository {
	return &SQLSessionRepository{db: db, dialect: dialect, now: time.Now}
}

// Migrate creates the sessions table if it is missing.
func (r *SQLSessionRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			authenticated BOOLEAN NOT NULL DEFAULT FALSE,
			expires_at BIGINT NOT NULL DEFAULT 0,
			updated_at BIGINT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (r *SQLSessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	var data string
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT data FROM sessions WHERE id = ?`), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	sess.ID = id
	return &sess, nil
}

func (r *SQLSessionRepository) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = r.now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	var expiresAt int64
	if !sess.SessionExpiry.IsZero() {
		expiresAt = sess.SessionExpiry.UnixMilli()
	}

	_, err = r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO sessions (id, data, authenticated, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT (id)
		DO UPDATE SET data = EXCLUDED.data, authenticated = EXCLUDED.authenticated,
			expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`),
		sess.ID, string(data), sess.Authenticated, expiresAt, sess.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SQLSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeStale removes unauthenticated sessions untouched since before.
func (r *SQLSessionRepository) PurgeStale(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(
		`DELETE FROM sessions WHERE authenticated = ? AND updated_at < ?`), false, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string][]byte)}
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	data, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save stores a copy, so later edits to sess are not visible until saved again.
func (r *MemorySessionRepository) Save(_ context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.sessions[sess.ID] = data
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}
