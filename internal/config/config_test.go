package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 5, cfg.Catalog.Boost.Size)
	require.Equal(t, 10, cfg.Catalog.Submission.Max)
	require.Equal(t, time.Hour, cfg.Catalog.Contact.Window)
	require.Equal(t, 5, cfg.Catalog.Contact.Max)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "launchpad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: /tmp/catalog.db
catalog:
  boost:
    size: 3
    duration: 12h
  contact:
    window: 30m
    max: 2
    fail_closed: true
throttle:
  requests_per_second: 0
`), 0o600))

	t.Setenv("LAUNCHPAD_SERVER_PORT", "7070")
	t.Setenv("LAUNCHPAD_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "/tmp/catalog.db", cfg.DB.Path)
	require.Equal(t, 3, cfg.Catalog.Boost.Size)
	require.Equal(t, 12*time.Hour, cfg.Catalog.Boost.Duration)
	require.Equal(t, 0.5, cfg.Catalog.Boost.Multiplier, "unset keys keep defaults")
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Auth.AllowedOrigins)
	require.Zero(t, cfg.Throttle.RequestsPerSecond)

	contact := cfg.Catalog.Policies()[activity.TypeContactMessage]
	require.Equal(t, 30*time.Minute, contact.Window)
	require.True(t, contact.FailClosed)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LAUNCHPAD_DB_PATH=from-dotenv.db\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LAUNCHPAD_DB_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from-dotenv.db", cfg.DB.Path)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LAUNCHPAD_SERVER_PORT", "eighty")

	_, err := Load("")
	require.ErrorContains(t, err, "LAUNCHPAD_SERVER_PORT")
}
