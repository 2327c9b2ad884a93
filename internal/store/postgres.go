package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/wildatlas/zootrack/internal/clean"
	"github.com/wildatlas/zootrack/internal/outlier"
	"github.com/wildatlas/zootrack/internal/slug"
	"github.com/wildatlas/zootrack/internal/taxonomy"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS animal (
	id          TEXT PRIMARY KEY,
	name        TEXT,
	slug        TEXT,
	priority    INTEGER NOT NULL DEFAULT 0,
	parent_name TEXT,
	parent_id   TEXT REFERENCES animal(id)
);

CREATE TABLE IF NOT EXISTS zoo (
	id        TEXT PRIMARY KEY,
	name      TEXT,
	slug      TEXT,
	country   TEXT,
	latitude  DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	priority  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS etl_runs (
	id          TEXT PRIMARY KEY,
	task        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	detail      TEXT,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_animal_slug ON animal(slug) WHERE slug IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_zoo_slug ON zoo(slug) WHERE slug IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_animal_parent_id ON animal(parent_id);
CREATE INDEX IF NOT EXISTS idx_zoo_country ON zoo(country);
`

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

func (s *PostgresStore) ListSlugTargets(ctx context.Context, table string, all bool) ([]slug.Target, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	q := `SELECT id, COALESCE(name, '') FROM ` + table
	if !all {
		q += ` WHERE slug IS NULL OR slug = ''`
	}
	q += ` ORDER BY priority DESC, lower(COALESCE(name, '')) ASC, id ASC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list slug targets %s", table)
	}
	defer rows.Close()

	var targets []slug.Target
	for rows.Next() {
		var t slug.Target
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, eris.Wrap(err, "postgres: scan slug target")
		}
		targets = append(targets, t)
	}
	return targets, eris.Wrap(rows.Err(), "postgres: iterate slug targets")
}

func (s *PostgresStore) ListSlugs(ctx context.Context, table string) ([]string, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT slug FROM `+table+` WHERE slug IS NOT NULL AND slug != ''`)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list slugs %s", table)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrap(err, "postgres: scan slug")
		}
		slugs = append(slugs, v)
	}
	return slugs, eris.Wrap(rows.Err(), "postgres: iterate slugs")
}

func (s *PostgresStore) ApplySlugs(ctx context.Context, table string, plan []slug.Assignment) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(plan) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin apply slugs")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := setSlugsPgTx(ctx, tx, table, plan); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit apply slugs")
}

// ReplaceSlugs clears every slug in the table and applies the plan, all in
// one transaction. A failure anywhere rolls back to the prior slugs.
func (s *PostgresStore) ReplaceSlugs(ctx context.Context, table string, plan []slug.Assignment) error {
	if err := checkTable(table); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace slugs")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `UPDATE `+table+` SET slug = NULL`); err != nil {
		return eris.Wrapf(err, "postgres: clear slugs %s", table)
	}
	if err := setSlugsPgTx(ctx, tx, table, plan); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace slugs")
}

func setSlugsPgTx(ctx context.Context, tx pgx.Tx, table string, plan []slug.Assignment) error {
	for _, a := range plan {
		if _, err := tx.Exec(ctx,
			`UPDATE `+table+` SET slug = $1 WHERE id = $2`, a.Slug, a.ID); err != nil {
			return eris.Wrapf(err, "postgres: set slug %s=%s", a.ID, a.Slug)
		}
	}
	return nil
}

func (s *PostgresStore) ListGeoRecords(ctx context.Context) ([]outlier.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, country, latitude, longitude, name FROM zoo ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list geo records")
	}
	defer rows.Close()

	var records []outlier.Record
	for rows.Next() {
		var r outlier.Record
		if err := rows.Scan(&r.ID, &r.Country, &r.Latitude, &r.Longitude, &r.Name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan geo record")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate geo records")
}

func (s *PostgresStore) ListAnimalNodes(ctx context.Context) ([]taxonomy.Node, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(parent_name, ''), parent_id FROM animal ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list animal nodes")
	}
	defer rows.Close()

	var nodes []taxonomy.Node
	for rows.Next() {
		var n taxonomy.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.ParentName, &n.ParentID); err != nil {
			return nil, eris.Wrap(err, "postgres: scan animal node")
		}
		nodes = append(nodes, n)
	}
	return nodes, eris.Wrap(rows.Err(), "postgres: iterate animal nodes")
}

func (s *PostgresStore) LinkParents(ctx context.Context, links []taxonomy.Link) error {
	if len(links) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin link parents")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, l := range links {
		if _, err := tx.Exec(ctx,
			`UPDATE animal SET parent_id = $1 WHERE id = $2`, l.ParentID, l.ChildID); err != nil {
			return eris.Wrapf(err, "postgres: link parent %s -> %s", l.ChildID, l.ParentID)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit link parents")
}

func (s *PostgresStore) ListNames(ctx context.Context, table string) ([]clean.NameRow, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name FROM `+table+` WHERE name IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list names %s", table)
	}
	defer rows.Close()

	var out []clean.NameRow
	for rows.Next() {
		var r clean.NameRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan name row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate name rows")
}

func (s *PostgresStore) ApplyNameFixes(ctx context.Context, table string, fixes []clean.NameFix) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(fixes) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin name fixes")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, f := range fixes {
		if _, err := tx.Exec(ctx,
			`UPDATE `+table+` SET name = $1 WHERE id = $2`, f.New, f.ID); err != nil {
			return eris.Wrapf(err, "postgres: fix name %s", f.ID)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit name fixes")
}

func (s *PostgresStore) ListZooCountries(ctx context.Context) ([]clean.CountryRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, country FROM zoo WHERE country IS NOT NULL AND country != '' ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list zoo countries")
	}
	defer rows.Close()

	var out []clean.CountryRow
	for rows.Next() {
		var r clean.CountryRow
		if err := rows.Scan(&r.ID, &r.Country); err != nil {
			return nil, eris.Wrap(err, "postgres: scan country row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate country rows")
}

func (s *PostgresStore) ApplyCountryFixes(ctx context.Context, fixes []clean.NameFix) error {
	if len(fixes) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin country fixes")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, f := range fixes {
		if _, err := tx.Exec(ctx,
			`UPDATE zoo SET country = $1 WHERE id = $2`, f.New, f.ID); err != nil {
			return eris.Wrapf(err, "postgres: fix country %s", f.ID)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit country fixes")
}

func (s *PostgresStore) StartRun(ctx context.Context, task string) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO etl_runs (id, task, status, started_at) VALUES ($1, $2, $3, $4)`,
		id, task, RunRunning, time.Now().UTC())
	if err != nil {
		return "", eris.Wrapf(err, "postgres: start run %s", task)
	}
	return id, nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, runID, status, detail string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE etl_runs SET status = $1, detail = $2, finished_at = $3 WHERE id = $4`,
		status, detail, time.Now().UTC(), runID)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}
