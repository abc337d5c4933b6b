package stores

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Persistence is the storage a service runs on: a SQL database or, for the
// "memory" driver, process memory.
type Persistence struct {
	DB            *sql.DB
	Sessions      SessionRepository
	Notifications NotificationRepository
}

// Open connects to driver ("postgres", "sqlite" or "memory") and creates
// the tables.
func Open(ctx context.Context, driver, dsn string) (*Persistence, error) {
	var dialect Dialect
	switch driver {
	case "memory":
		return &Persistence{
			Sessions:      NewMemorySessionRepository(),
			Notifications: NewMemoryNotificationRepository(),
		}, nil
	case "postgres":
		dialect = Postgres
	case "sqlite":
		dialect = SQLite
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == SQLite {
		// one writer; also keeps a :memory: database alive across calls
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	sessions := NewSQLSessionRepository(db, dialect)
	notes := NewSQLNotificationRepository(db, dialect)
	if err := sessions.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := notes.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Persistence{DB: db, Sessions: sessions, Notifications: notes}, nil
}

func (p *Persistence) Close() error {
	if p.DB == nil {
		return nil
	}
	return p.DB.Close()
}
