package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig_Defaults tests that tag-declared defaults survive an empty
// environment.
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "(&(objectclass=user)(uidnumber=*))", cfg.Directory.UserFilter)
	assert.Equal(t, "(&(objectclass=group)(gidnumber=*))", cfg.Directory.GroupFilter)
	assert.Equal(t, 500, cfg.Directory.PageSize)
	assert.Equal(t, "/etc/passwd", cfg.Local.PasswdPath)
	assert.Equal(t, "/etc/group", cfg.Local.GroupPath)
	assert.Equal(t, "wheel", cfg.Local.ProtectedGroup)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Sync.UserPattern)
}

// TestLoadConfig_Environment tests the nested-key environment mapping.
func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DIRECTORY_SERVERS", "ldaps://dc1 ldaps://dc2")
	t.Setenv("DIRECTORY_BASE_DN", "dc=example,dc=com")
	t.Setenv("DIRECTORY_PAGE_SIZE", "100")
	t.Setenv("SYNC_USER_PATTERN", "dev*")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"ldaps://dc1", "ldaps://dc2"}, cfg.Directory.ServerList())
	assert.Equal(t, "dc=example,dc=com", cfg.Directory.BaseDN)
	assert.Equal(t, 100, cfg.Directory.PageSize)
	assert.Equal(t, "dev*", cfg.Sync.UserPattern)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// TestLoadConfig_DotEnv tests that a .env file in the config path overrides
// the process environment.
func TestLoadConfig_DotEnv(t *testing.T) {
	t.Setenv("DIRECTORY_BIND_DN", "cn=stale,dc=example,dc=com")
	t.Setenv("LOCAL_PROTECTED_GROUP", "wheel")

	dir := t.TempDir()
	env := "DIRECTORY_BIND_DN=cn=reader,dc=example,dc=com\nLOCAL_PROTECTED_GROUP=sudo\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "cn=reader,dc=example,dc=com", cfg.Directory.BindDN)
	assert.Equal(t, "sudo", cfg.Local.ProtectedGroup)
}
