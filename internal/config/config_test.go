package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "http://127.0.0.1:5002/api/v1", cfg.DefectAPI.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.DefectAPI.Timeout)
	assert.Zero(t, cfg.DefectAPI.MaxRetries)
	assert.Equal(t, 40, cfg.LLM.MaxRecords)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
  cors_origins: ["http://localhost:3000"]
defect_api:
  base_url: "http://defects.local/api/v1"
  timeout: 3s
llm:
  max_records: 25
`), 0o600))

	t.Setenv("ROADDEFECTS_LLM_API_KEY", "key-from-env")
	t.Setenv("ROADDEFECTS_AUTH_SECRET_KEY", "s3cret")

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://defects.local/api/v1", cfg.DefectAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.DefectAPI.Timeout)
	assert.Equal(t, 25, cfg.LLM.MaxRecords)
	assert.Equal(t, "key-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "s3cret", cfg.Auth.SecretKey)
}

func TestLoadMissingFileIsNotFatal(t *testing.T) {
	_, err := load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
	assert.Contains(t, err.Error(), "llm.api_key")
	assert.Contains(t, err.Error(), "auth.secret_key")

	cfg.Database.DSN = "postgres://localhost/roads"
	cfg.LLM.APIKey = "k"
	cfg.Auth.SecretKey = "s"
	assert.NoError(t, cfg.Validate())
}
