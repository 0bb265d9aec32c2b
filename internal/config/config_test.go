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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
order_db:
  driver: sqlite
  dsn: "file::memory:"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.OrderDB.Driver)
	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, "SAR", cfg.Ledger.Currency)
	assert.Equal(t, "$.invoices[*]", cfg.Analytics.HeadersPath)

	f, err := cfg.Ledger.FeeFactorDecimal()
	require.NoError(t, err)
	assert.Equal(t, "0.744", f.String())
}

func TestLoadLegacyZeroFee(t *testing.T) {
	path := writeConfig(t, `
ledger:
  fee_factor: "0"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	f, err := cfg.Ledger.FeeFactorDecimal()
	require.NoError(t, err)
	assert.True(t, f.IsZero())
}

func TestLoadRejectsBadFeeFactor(t *testing.T) {
	path := writeConfig(t, `
ledger:
  fee_factor: "-0.5"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
