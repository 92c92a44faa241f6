package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/db"
	"github.com/sells-group/leadgen/internal/model"
)

// PostgresStore implements Store on PostGIS-enabled Postgres via pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
	newID   func() string
	now     func() time.Time
}

// NewPostgres connects a pool and returns a PostgresStore.
func NewPostgres(ctx context.Context, connString string, poolCfg db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return newPostgresStore(pool), nil
}

func newPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close, newID: uuid.NewString, now: time.Now}
}

// Pool returns the underlying database pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	tenant_id  TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL,
	emails     TEXT[] NOT NULL DEFAULT '{}',
	address    TEXT NOT NULL DEFAULT '',
	about      TEXT NOT NULL DEFAULT '',
	latitude   DOUBLE PRECISION NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL,
	location   geometry(Point, 4326),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_tenant_created ON leads(tenant_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_leads_location ON leads USING GIST (location);
`

var leadColumns = []string{
	"id", "tenant_id", "name", "phone", "emails", "address", "about",
	"latitude", "longitude", "location", "created_at",
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// InsertLeads writes the batch with a single COPY. The search coordinate is
// stored both as plain columns and as a PostGIS point.
func (s *PostgresStore) InsertLeads(ctx context.Context, tenantID string, leads []model.StorageLead, lat, lng float64) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	if err := checkTenant(tenantID); err != nil {
		return 0, err
	}

	location, err := db.PointEWKB(lat, lng)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert leads")
	}

	stamped := stamp(tenantID, leads, lat, lng, s.newID, s.now)
	rows := make([][]any, 0, len(stamped))
	for _, l := range stamped {
		rows = append(rows, []any{
			l.ID, l.TenantID, l.Name, l.Phone, l.Emails, l.Address, l.About,
			l.Latitude, l.Longitude, location, l.CreatedAt,
		})
	}

	n, err := db.CopyFrom(ctx, s.pool, Table, leadColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert leads")
	}

	zap.L().Debug("postgres: leads inserted",
		zap.String("tenant_id", tenantID),
		zap.Int64("rows", n),
	)
	return int(n), nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.StorageLead, error) {
	if err := checkTenant(filter.TenantID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, phone, emails, address, about, latitude, longitude, created_at
		FROM leads WHERE tenant_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		filter.TenantID, filter.limit(), max(filter.Offset, 0),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	leads := []model.StorageLead{}
	for rows.Next() {
		var l model.StorageLead
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Phone, &l.Emails, &l.Address, &l.About,
			&l.Latitude, &l.Longitude, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}
