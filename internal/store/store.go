// Package store persists the zoo dataset behind a driver-neutral interface.
// All write operations apply a whole plan in one transaction; the pure
// planning packages (slug, outlier, clean, taxonomy) never see this layer.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/wildatlas/zootrack/internal/clean"
	"github.com/wildatlas/zootrack/internal/outlier"
	"github.com/wildatlas/zootrack/internal/slug"
	"github.com/wildatlas/zootrack/internal/taxonomy"
)

// Tables that carry slugs and display names.
const (
	TableAnimal = "animal"
	TableZoo    = "zoo"
)

// Run statuses recorded in the etl_runs audit table.
const (
	RunRunning = "running"
	RunDone    = "done"
	RunFailed  = "failed"
)

// Store defines the persistence interface for the ETL passes.
type Store interface {
	// Slugs. ListSlugTargets returns rows ordered by priority descending,
	// lowercased name ascending, id ascending; with all=false only rows
	// without a slug are returned. ApplySlugs writes a whole plan in one
	// transaction. ReplaceSlugs clears every slug and applies the plan in
	// the same transaction, so a failed reset leaves prior slugs intact.
	ListSlugTargets(ctx context.Context, table string, all bool) ([]slug.Target, error)
	ListSlugs(ctx context.Context, table string) ([]string, error)
	ApplySlugs(ctx context.Context, table string, plan []slug.Assignment) error
	ReplaceSlugs(ctx context.Context, table string, plan []slug.Assignment) error

	// Coordinates.
	ListGeoRecords(ctx context.Context) ([]outlier.Record, error)

	// Taxonomy.
	ListAnimalNodes(ctx context.Context) ([]taxonomy.Node, error)
	LinkParents(ctx context.Context, links []taxonomy.Link) error

	// Name and country repair.
	ListNames(ctx context.Context, table string) ([]clean.NameRow, error)
	ApplyNameFixes(ctx context.Context, table string, fixes []clean.NameFix) error
	ListZooCountries(ctx context.Context) ([]clean.CountryRow, error)
	ApplyCountryFixes(ctx context.Context, fixes []clean.NameFix) error

	// Audit trail.
	StartRun(ctx context.Context, task string) (string, error)
	FinishRun(ctx context.Context, runID string, status string, detail string) error

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}

// checkTable rejects table names outside the known set before any SQL is
// built from them.
func checkTable(table string) error {
	switch table {
	case TableAnimal, TableZoo:
		return nil
	default:
		return eris.Errorf("store: unknown table %q", table)
	}
}
