package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Emails are kept as a
// JSON array in a TEXT column.
type SQLiteStore struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One writer at a time; keeps the busy_timeout pragma on a single connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, newID: uuid.NewString, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	tenant_id  TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL,
	emails     TEXT NOT NULL DEFAULT '[]',
	address    TEXT NOT NULL DEFAULT '',
	about      TEXT NOT NULL DEFAULT '',
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_tenant_created ON leads(tenant_id, created_at);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertLeads writes the batch in one transaction; either every row lands
// or none does.
func (s *SQLiteStore) InsertLeads(ctx context.Context, tenantID string, leads []model.StorageLead, lat, lng float64) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	if err := checkTenant(tenantID); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO leads (id, tenant_id, name, phone, emails, address, about, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	stamped := stamp(tenantID, leads, lat, lng, s.newID, s.now)
	for _, l := range stamped {
		emails, err := json.Marshal(l.Emails)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal emails")
		}
		if _, err := stmt.ExecContext(ctx, l.ID, l.TenantID, l.Name, l.Phone, string(emails),
			l.Address, l.About, l.Latitude, l.Longitude, l.CreatedAt); err != nil {
			return 0, eris.Wrap(err, "sqlite: insert lead")
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return len(stamped), nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.StorageLead, error) {
	if err := checkTenant(filter.TenantID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, phone, emails, address, about, latitude, longitude, created_at
		FROM leads WHERE tenant_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		filter.TenantID, filter.limit(), max(filter.Offset, 0),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	leads := []model.StorageLead{}
	for rows.Next() {
		var l model.StorageLead
		var emails string
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Phone, &emails, &l.Address, &l.About,
			&l.Latitude, &l.Longitude, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		if err := json.Unmarshal([]byte(emails), &l.Emails); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal emails")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}
