package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestFileStore_Users tests passwd(5) parsing.
func TestFileStore_Users(t *testing.T) {
	dir := t.TempDir()
	passwd := writeFile(t, dir, "passwd",
		"root:x:0:0:root:/root:/bin/bash\n"+
			"bob:x:1001:1000:Bob:/home/bob:/bin/sh\n"+
			"\n"+
			"# comment\n")

	store := NewFileStore(Config{PasswdPath: passwd})
	users, err := store.Users()
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, UserEntry{Name: "root", UID: 0, GID: 0, Gecos: "root", Home: "/root", Shell: "/bin/bash"}, users[0])
	assert.Equal(t, UserEntry{Name: "bob", UID: 1001, GID: 1000, Gecos: "Bob", Home: "/home/bob", Shell: "/bin/sh"}, users[1])
}

// TestFileStore_Groups tests group(5) parsing.
func TestFileStore_Groups(t *testing.T) {
	dir := t.TempDir()
	group := writeFile(t, dir, "group",
		"wheel:x:10:root,admin\n"+
			"staff:x:1000:des,bob\n"+
			"empty:x:1001:\n")

	store := NewFileStore(Config{GroupPath: group})
	groups, err := store.Groups()
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, GroupEntry{Name: "wheel", GID: 10, Members: "root,admin"}, groups[0])
	assert.Equal(t, GroupEntry{Name: "staff", GID: 1000, Members: "des,bob"}, groups[1])
	assert.Equal(t, GroupEntry{Name: "empty", GID: 1001, Members: ""}, groups[2])
}

// TestFileStore_MalformedLines tests that malformed local data fails the
// enumeration instead of being silently dropped.
func TestFileStore_MalformedLines(t *testing.T) {
	dir := t.TempDir()

	badPasswd := writeFile(t, dir, "passwd", "bob:x:notanumber:1000:Bob:/home/bob:/bin/sh\n")
	_, err := NewFileStore(Config{PasswdPath: badPasswd}).Users()
	assert.Error(t, err)

	shortGroup := writeFile(t, dir, "group", "staff:x:1000\n")
	_, err = NewFileStore(Config{GroupPath: shortGroup}).Groups()
	assert.Error(t, err)
}

// TestFileStore_MissingFile tests that an unreadable store is an error.
func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(Config{PasswdPath: "/nonexistent/passwd", GroupPath: "/nonexistent/group"})

	_, err := store.Users()
	assert.Error(t, err)
	_, err = store.Groups()
	assert.Error(t, err)
}
