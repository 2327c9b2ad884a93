package store

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// BackupFile copies the SQLite database file aside before a write batch, so
// a botched ETL run can be rolled back by hand. dir defaults to the database
// file's directory. Returns the backup path.
func BackupFile(dbPath, dir string) (string, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return "", eris.Wrapf(err, "backup: open %s", dbPath)
	}
	defer src.Close()

	if dir == "" {
		dir = filepath.Dir(dbPath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "backup: create dir %s", dir)
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	dstPath := filepath.Join(dir, filepath.Base(dbPath)+".bak-"+stamp)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", eris.Wrapf(err, "backup: create %s", dstPath)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", eris.Wrap(err, "backup: copy")
	}
	if err := dst.Sync(); err != nil {
		return "", eris.Wrap(err, "backup: sync")
	}
	return dstPath, nil
}
