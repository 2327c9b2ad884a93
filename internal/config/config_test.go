package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run in an empty dir so no stray config.yaml is picked up.
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(origDir) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "zoo.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(origDir) //nolint:errcheck

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/zoo
log:
  level: debug
  format: json
etl:
  skip_backup: true
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/zoo", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.ETL.SkipBackup)
}

func TestLoad_EnvOverride(t *testing.T) {
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(origDir) //nolint:errcheck

	t.Setenv("ZOOTRACK_STORE_DRIVER", "postgres")
	t.Setenv("ZOOTRACK_STORE_DATABASE_URL", "postgres://env/zoo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://env/zoo", cfg.Store.DatabaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite ok", Config{Store: StoreConfig{Driver: "sqlite"}}, false},
		{"postgres with url", Config{Store: StoreConfig{Driver: "postgres", DatabaseURL: "postgres://x"}}, false},
		{"postgres without url", Config{Store: StoreConfig{Driver: "postgres"}}, true},
		{"unknown driver", Config{Store: StoreConfig{Driver: "oracle"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "verbose", Format: "json"}))
}
