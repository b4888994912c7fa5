package local

import (
	"testing"

	"dirsync/core/account"
	"dirsync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommandsFor tests the mapping from actions to system tool invocations.
func TestCommandsFor(t *testing.T) {
	user := &account.User{Name: "kenneth", UID: 1003, GID: 1003, Gecos: "Kenneth", Home: "/home/kenneth", Shell: "/bin/sh"}

	tests := []struct {
		name   string
		action reconcile.Action
		want   [][]string
	}{
		{
			name:   "create user",
			action: reconcile.Action{Op: reconcile.OpCreateUser, Name: "kenneth", User: user},
			want: [][]string{{
				"useradd", "-u", "1003", "-g", "1003", "-c", "Kenneth",
				"-d", "/home/kenneth", "-s", "/bin/sh", "kenneth",
			}},
		},
		{
			name:   "modify user",
			action: reconcile.Action{Op: reconcile.OpModifyUser, Name: "kenneth", User: user},
			want: [][]string{{
				"usermod", "-u", "1003", "-g", "1003", "-c", "Kenneth",
				"-d", "/home/kenneth", "-s", "/bin/sh", "kenneth",
			}},
		},
		{
			name:   "delete user",
			action: reconcile.Action{Op: reconcile.OpDeleteUser, Name: "kenneth"},
			want:   [][]string{{"userdel", "kenneth"}},
		},
		{
			name: "create group without members",
			action: reconcile.Action{Op: reconcile.OpCreateGroup, Name: "kenneth",
				Group: &account.Group{Name: "kenneth", GID: 1003}},
			want: [][]string{{"groupadd", "-g", "1003", "kenneth"}},
		},
		{
			name: "create group with members",
			action: reconcile.Action{Op: reconcile.OpCreateGroup, Name: "staff",
				Group: &account.Group{Name: "staff", GID: 1000, Members: "bob,des"}},
			want: [][]string{
				{"groupadd", "-g", "1000", "staff"},
				{"gpasswd", "-M", "bob,des", "staff"},
			},
		},
		{
			name: "modify group",
			action: reconcile.Action{Op: reconcile.OpModifyGroup, Name: "staff",
				Group: &account.Group{Name: "staff", GID: 1000, Members: "bob,des"}},
			want: [][]string{
				{"groupmod", "-g", "1000", "staff"},
				{"gpasswd", "-M", "bob,des", "staff"},
			},
		},
		{
			name:   "delete group",
			action: reconcile.Action{Op: reconcile.OpDeleteGroup, Name: "guests"},
			want:   [][]string{{"groupdel", "guests"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commandsFor(tt.action)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}
