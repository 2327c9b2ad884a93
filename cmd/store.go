package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wildatlas/zootrack/internal/store"
)

// initStore opens the configured store backend.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "zoo.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// backupBeforeWrite copies the SQLite file aside unless backups are disabled.
// Postgres stores have their own recovery story and are left alone.
func backupBeforeWrite(st store.Store) error {
	if cfg.ETL.SkipBackup {
		return nil
	}
	sq, ok := st.(*store.SQLiteStore)
	if !ok {
		return nil
	}
	path, err := store.BackupFile(sq.Path(), cfg.ETL.BackupDir)
	if err != nil {
		return eris.Wrap(err, "pre-write backup")
	}
	zap.L().Info("database backed up", zap.String("path", path))
	return nil
}
