package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qfit.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, "", cfg.GetLeapSecondsPath())
	assert.False(t, cfg.GetLenient())
	assert.Equal(t, "", cfg.GetCatalogPath())
	assert.Equal(t, 10, cfg.GetMaxRecords())
}

func TestLoadPartialConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"lenient": true, "max_records": 25}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.GetLenient())
	assert.Equal(t, 25, cfg.GetMaxRecords())
	// Omitted fields keep their defaults.
	assert.Equal(t, "", cfg.GetCatalogPath())
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Parallel()

	t.Run("wrong extension", func(t *testing.T) {
		_, err := Load("qfit.yaml")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := Load(writeConfig(t, `{`))
		assert.Error(t, err)
	})

	t.Run("negative max_records", func(t *testing.T) {
		_, err := Load(writeConfig(t, `{"max_records": -1}`))
		assert.Error(t, err)
	})

	t.Run("dangling leap_seconds_path", func(t *testing.T) {
		_, err := Load(writeConfig(t, `{"leap_seconds_path": "/no/such/file"}`))
		assert.Error(t, err)
	})
}
