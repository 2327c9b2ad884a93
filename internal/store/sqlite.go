package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/wildatlas/zootrack/internal/clean"
	"github.com/wildatlas/zootrack/internal/outlier"
	"github.com/wildatlas/zootrack/internal/slug"
	"github.com/wildatlas/zootrack/internal/taxonomy"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, path: dsn}, nil
}

const sqliteMigration = `
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
	latitude  REAL,
	longitude REAL,
	priority  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS etl_runs (
	id          TEXT PRIMARY KEY,
	task        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	detail      TEXT,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_animal_slug ON animal(slug) WHERE slug IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_zoo_slug ON zoo(slug) WHERE slug IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_animal_parent_id ON animal(parent_id);
CREATE INDEX IF NOT EXISTS idx_zoo_country ON zoo(country);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path, used by the pre-write backup.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) ListSlugTargets(ctx context.Context, table string, all bool) ([]slug.Target, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	q := `SELECT id, COALESCE(name, '') FROM ` + table
	if !all {
		q += ` WHERE slug IS NULL OR slug = ''`
	}
	q += ` ORDER BY priority DESC, lower(COALESCE(name, '')) ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list slug targets %s", table)
	}
	defer rows.Close()

	var targets []slug.Target
	for rows.Next() {
		var t slug.Target
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan slug target")
		}
		targets = append(targets, t)
	}
	return targets, eris.Wrap(rows.Err(), "sqlite: iterate slug targets")
}

func (s *SQLiteStore) ListSlugs(ctx context.Context, table string) ([]string, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug FROM `+table+` WHERE slug IS NOT NULL AND slug != ''`)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list slugs %s", table)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan slug")
		}
		slugs = append(slugs, v)
	}
	return slugs, eris.Wrap(rows.Err(), "sqlite: iterate slugs")
}

func (s *SQLiteStore) ApplySlugs(ctx context.Context, table string, plan []slug.Assignment) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(plan) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin apply slugs")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := setSlugsTx(ctx, tx, table, plan); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit apply slugs")
}

// ReplaceSlugs clears every slug in the table and applies the plan, all in
// one transaction. A failure anywhere rolls back to the prior slugs.
func (s *SQLiteStore) ReplaceSlugs(ctx context.Context, table string, plan []slug.Assignment) error {
	if err := checkTable(table); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace slugs")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE `+table+` SET slug = NULL`); err != nil {
		return eris.Wrapf(err, "sqlite: clear slugs %s", table)
	}
	if err := setSlugsTx(ctx, tx, table, plan); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit replace slugs")
}

func setSlugsTx(ctx context.Context, tx *sql.Tx, table string, plan []slug.Assignment) error {
	stmt, err := tx.PrepareContext(ctx, `UPDATE `+table+` SET slug = ? WHERE id = ?`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare slug update")
	}
	defer stmt.Close()

	for _, a := range plan {
		if _, err := stmt.ExecContext(ctx, a.Slug, a.ID); err != nil {
			return eris.Wrapf(err, "sqlite: set slug %s=%s", a.ID, a.Slug)
		}
	}
	return nil
}

func (s *SQLiteStore) ListGeoRecords(ctx context.Context) ([]outlier.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, country, latitude, longitude, name FROM zoo ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list geo records")
	}
	defer rows.Close()

	var records []outlier.Record
	for rows.Next() {
		var r outlier.Record
		if err := rows.Scan(&r.ID, &r.Country, &r.Latitude, &r.Longitude, &r.Name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan geo record")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate geo records")
}

func (s *SQLiteStore) ListAnimalNodes(ctx context.Context) ([]taxonomy.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(parent_name, ''), parent_id FROM animal ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list animal nodes")
	}
	defer rows.Close()

	var nodes []taxonomy.Node
	for rows.Next() {
		var n taxonomy.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.ParentName, &n.ParentID); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan animal node")
		}
		nodes = append(nodes, n)
	}
	return nodes, eris.Wrap(rows.Err(), "sqlite: iterate animal nodes")
}

func (s *SQLiteStore) LinkParents(ctx context.Context, links []taxonomy.Link) error {
	if len(links) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin link parents")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, l := range links {
		if _, err := tx.ExecContext(ctx,
			`UPDATE animal SET parent_id = ? WHERE id = ?`, l.ParentID, l.ChildID); err != nil {
			return eris.Wrapf(err, "sqlite: link parent %s -> %s", l.ChildID, l.ParentID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit link parents")
}

func (s *SQLiteStore) ListNames(ctx context.Context, table string) ([]clean.NameRow, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM `+table+` WHERE name IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list names %s", table)
	}
	defer rows.Close()

	var out []clean.NameRow
	for rows.Next() {
		var r clean.NameRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan name row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate name rows")
}

func (s *SQLiteStore) ApplyNameFixes(ctx context.Context, table string, fixes []clean.NameFix) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(fixes) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin name fixes")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, f := range fixes {
		if _, err := tx.ExecContext(ctx,
			`UPDATE `+table+` SET name = ? WHERE id = ?`, f.New, f.ID); err != nil {
			return eris.Wrapf(err, "sqlite: fix name %s", f.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit name fixes")
}

func (s *SQLiteStore) ListZooCountries(ctx context.Context) ([]clean.CountryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, country FROM zoo WHERE country IS NOT NULL AND country != '' ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list zoo countries")
	}
	defer rows.Close()

	var out []clean.CountryRow
	for rows.Next() {
		var r clean.CountryRow
		if err := rows.Scan(&r.ID, &r.Country); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan country row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate country rows")
}

func (s *SQLiteStore) ApplyCountryFixes(ctx context.Context, fixes []clean.NameFix) error {
	if len(fixes) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin country fixes")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, f := range fixes {
		if _, err := tx.ExecContext(ctx,
			`UPDATE zoo SET country = ? WHERE id = ?`, f.New, f.ID); err != nil {
			return eris.Wrapf(err, "sqlite: fix country %s", f.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit country fixes")
}

func (s *SQLiteStore) StartRun(ctx context.Context, task string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO etl_runs (id, task, status, started_at) VALUES (?, ?, ?, ?)`,
		id, task, RunRunning, time.Now().UTC())
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: start run %s", task)
	}
	return id, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID, status, detail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE etl_runs SET status = ?, detail = ?, finished_at = ? WHERE id = ?`,
		status, detail, time.Now().UTC(), runID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: finish run rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
