package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LIBSQL_CLIENT_URL", "")
	t.Setenv("EDGEMAIL_DOMAIN", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.NoError(t, err)

	assert.False(t, cfg.Remote())
	assert.Equal(t, "idont.date", cfg.Mailbox.Domain)
	assert.Equal(t, 5, cfg.Mailbox.PageSize)
	assert.Equal(t, "agent", cfg.Mailbox.AddressPrefix)
	assert.Equal(t, 7, cfg.Local.RetentionDays)
	assert.Equal(t, "edgemail.db", filepath.Base(cfg.Local.Path))
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("LIBSQL_CLIENT_URL", "")
	t.Setenv("EDGEMAIL_DOMAIN", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: https://db.example.com/
  timeout_sec: 15
mailbox:
  domain: example.org
  page_size: 20
`), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.True(t, cfg.Remote())
	assert.Equal(t, "https://db.example.com/", cfg.Database.URL)
	assert.Equal(t, int64(15), int64(cfg.Timeout().Seconds()))
	assert.Equal(t, "example.org", cfg.Mailbox.Domain)
	assert.Equal(t, 20, cfg.Mailbox.PageSize)
}

func TestLoadConfig_EdgemailEnvironment(t *testing.T) {
	t.Setenv("LIBSQL_CLIENT_URL", "https://env.example.com")
	t.Setenv("EDGEMAIL_DOMAIN", "env.example")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Database.URL)
	assert.Equal(t, "env.example", cfg.Mailbox.Domain)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("domain", "", "")
	fs.Int("page-size", 0, "")
	require.NoError(t, fs.Parse([]string{"--domain=flag.example", "--page-size=10"}))

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), fs)
	require.NoError(t, err)

	assert.Equal(t, "flag.example", cfg.Mailbox.Domain)
	assert.Equal(t, 10, cfg.Mailbox.PageSize)
}

func TestLoadConfig_InvalidPageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mailbox:\n  page_size: -3\n"), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Mailbox.PageSize)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("LIBSQL_CLIENT_URL", "")
	t.Setenv("EDGEMAIL_DOMAIN", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &AppConfig{
		Database: DatabaseConfig{URL: "https://db.example.com"},
		Local:    LocalConfig{Path: "/tmp/x.db", RetentionDays: 3},
		Mailbox:  MailboxConfig{Domain: "saved.example", PageSize: 8, AddressPrefix: "bot"},
		Log:      LogConfig{Path: "/tmp/x.log", Level: "debug"},
	}
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
