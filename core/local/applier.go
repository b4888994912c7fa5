package local

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"dirsync/core/reconcile"

	"go.uber.org/zap"
)

// ExecApplier mutates the local store through the system account tools.
// Membership rewrites go through gpasswd because groupmod has no member-set
// flag.
type ExecApplier struct {
	log *zap.Logger
}

// NewExecApplier builds the production applier.
func NewExecApplier(log *zap.Logger) *ExecApplier {
	return &ExecApplier{log: log}
}

// Apply runs the commands for one action. A nonzero exit is returned as an
// error carrying the command's combined output; the engine treats it as a
// per-operation failure.
func (a *ExecApplier) Apply(ctx context.Context, action reconcile.Action) error {
	for _, argv := range commandsFor(action) {
		if err := a.run(ctx, argv); err != nil {
			return err
		}
	}
	return nil
}

func (a *ExecApplier) run(ctx context.Context, argv []string) error {
	a.log.Debug("exec", zap.Strings("argv", argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, bytes.TrimSpace(out))
	}
	return nil
}

// commandsFor maps an action onto system tool invocations.
func commandsFor(action reconcile.Action) [][]string {
	switch action.Op {
	case reconcile.OpCreateUser:
		u := action.User
		return [][]string{{
			"useradd",
			"-u", strconv.Itoa(u.UID),
			"-g", strconv.Itoa(u.GID),
			"-c", u.Gecos,
			"-d", u.Home,
			"-s", u.Shell,
			u.Name,
		}}
	case reconcile.OpModifyUser:
		u := action.User
		return [][]string{{
			"usermod",
			"-u", strconv.Itoa(u.UID),
			"-g", strconv.Itoa(u.GID),
			"-c", u.Gecos,
			"-d", u.Home,
			"-s", u.Shell,
			u.Name,
		}}
	case reconcile.OpDeleteUser:
		return [][]string{{"userdel", action.Name}}
	case reconcile.OpCreateGroup:
		argv := [][]string{{"groupadd", "-g", strconv.Itoa(action.Group.GID), action.Name}}
		if action.Group.Members != "" {
			argv = append(argv, []string{"gpasswd", "-M", action.Group.Members, action.Name})
		}
		return argv
	case reconcile.OpModifyGroup:
		return [][]string{
			{"groupmod", "-g", strconv.Itoa(action.Group.GID), action.Name},
			{"gpasswd", "-M", action.Group.Members, action.Name},
		}
	case reconcile.OpDeleteGroup:
		return [][]string{{"groupdel", action.Name}}
	default:
		return nil
	}
}
