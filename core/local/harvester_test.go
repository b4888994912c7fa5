package local

import (
	"fmt"
	"testing"

	"dirsync/core/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore serves canned tuples.
type fakeStore struct {
	users  []UserEntry
	groups []GroupEntry
	err    error
}

func (f *fakeStore) Users() ([]UserEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeStore) Groups() ([]GroupEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.groups, nil
}

func localCfg() Config {
	return Config{PasswdPath: "/etc/passwd", GroupPath: "/etc/group", ProtectedGroup: "wheel"}
}

// TestLocalHarvest_Threshold tests that system accounts never enter the
// snapshot.
func TestLocalHarvest_Threshold(t *testing.T) {
	f := &fakeStore{
		users: []UserEntry{
			{Name: "root", UID: 0, GID: 0, Home: "/root", Shell: "/bin/bash"},
			{Name: "bob", UID: 1001, GID: 1000, Home: "/home/bob", Shell: "/bin/sh"},
		},
		groups: []GroupEntry{
			{Name: "wheel", GID: 10, Members: "root"},
			{Name: "staff", GID: 1000},
		},
	}

	h := NewHarvester(f, localCfg(), account.Filter{}, zap.NewNop())
	snap, protected, err := h.Harvest()
	require.NoError(t, err)

	assert.NotContains(t, snap.Users, "root")
	assert.Contains(t, snap.Users, "bob")
	assert.NotContains(t, snap.Groups, "wheel")
	assert.Contains(t, snap.Groups, "staff")
	assert.True(t, protected.Contains("root"))
}

// TestLocalHarvest_MembershipCanonicalization tests that store-native member
// ordering is irrelevant and unknown members are dropped.
func TestLocalHarvest_MembershipCanonicalization(t *testing.T) {
	f := &fakeStore{
		users: []UserEntry{
			{Name: "bob", UID: 1001, GID: 2000, Home: "/home/bob", Shell: "/bin/sh"},
			{Name: "des", UID: 1002, GID: 2000, Home: "/home/des", Shell: "/bin/sh"},
		},
		groups: []GroupEntry{
			// Out of order and polluted with a sub-threshold member.
			{Name: "staff", GID: 1000, Members: "des,root,bob"},
			{Name: "other", GID: 2000},
		},
	}

	h := NewHarvester(f, localCfg(), account.Filter{}, zap.NewNop())
	snap, _, err := h.Harvest()
	require.NoError(t, err)

	assert.Equal(t, "bob,des", snap.Groups["staff"].Members)
}

// TestLocalHarvest_PrimaryGroupNormalization tests that primary-group
// membership implicit in the passwd gid is materialized, matching the
// directory side.
func TestLocalHarvest_PrimaryGroupNormalization(t *testing.T) {
	f := &fakeStore{
		users: []UserEntry{
			{Name: "kenneth", UID: 1003, GID: 1003, Home: "/home/kenneth", Shell: "/bin/sh"},
		},
		groups: []GroupEntry{
			// The group file does not list kenneth.
			{Name: "kenneth", GID: 1003, Members: ""},
		},
	}

	h := NewHarvester(f, localCfg(), account.Filter{}, zap.NewNop())
	snap, _, err := h.Harvest()
	require.NoError(t, err)

	assert.Equal(t, "kenneth", snap.Groups["kenneth"].Members)
}

// TestLocalHarvest_ProtectedGroupBelowThreshold tests that the protected set
// is read before filtering: admin accounts usually sit below the threshold.
func TestLocalHarvest_ProtectedGroupBelowThreshold(t *testing.T) {
	f := &fakeStore{
		users: []UserEntry{},
		groups: []GroupEntry{
			{Name: "wheel", GID: 10, Members: "root admin"},
		},
	}

	h := NewHarvester(f, localCfg(), account.Filter{}, zap.NewNop())
	_, protected, err := h.Harvest()
	require.NoError(t, err)

	assert.True(t, protected.Contains("root"))
	assert.True(t, protected.Contains("admin"))
	assert.False(t, protected.Contains("bob"))
}

// TestLocalHarvest_MissingProtectedGroup tests that a missing admin group
// yields an empty protected set, not an error.
func TestLocalHarvest_MissingProtectedGroup(t *testing.T) {
	f := &fakeStore{groups: []GroupEntry{{Name: "staff", GID: 1000}}}

	h := NewHarvester(f, localCfg(), account.Filter{}, zap.NewNop())
	_, protected, err := h.Harvest()
	require.NoError(t, err)
	assert.Empty(t, protected)
}

// TestLocalHarvest_StoreFailureIsFatal tests that enumeration failure aborts
// the harvest.
func TestLocalHarvest_StoreFailureIsFatal(t *testing.T) {
	f := &fakeStore{err: fmt.Errorf("permission denied")}

	h := NewHarvester(f, localCfg(), account.Filter{}, zap.NewNop())
	snap, _, err := h.Harvest()
	assert.Error(t, err)
	assert.Nil(t, snap)
}
