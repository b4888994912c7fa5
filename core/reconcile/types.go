package reconcile

import (
	"context"
	"fmt"

	"dirsync/core/account"
)

// Op identifies a mutation of the local account store.
type Op string

const (
	OpCreateUser  Op = "create-user"
	OpModifyUser  Op = "modify-user"
	OpDeleteUser  Op = "delete-user"
	OpCreateGroup Op = "create-group"
	OpModifyGroup Op = "modify-group"
	OpDeleteGroup Op = "delete-group"
)

// Action is one planned mutation. User is set for user creates/modifies,
// Group for group creates/modifies; deletes carry the name only.
type Action struct {
	Op    Op
	Name  string
	User  *account.User
	Group *account.Group
}

// String renders the action the way the diagnostics trace reports it,
// e.g. "create-group kenneth -g 1003" or "modify-group staff -g 1000 -M bob,des".
func (a Action) String() string {
	switch a.Op {
	case OpCreateUser, OpModifyUser:
		return fmt.Sprintf("%s %s -u %d -g %d -c %q -d %s -s %s",
			a.Op, a.Name, a.User.UID, a.User.GID, a.User.Gecos, a.User.Home, a.User.Shell)
	case OpCreateGroup, OpModifyGroup:
		if a.Group.Members == "" {
			return fmt.Sprintf("%s %s -g %d", a.Op, a.Name, a.Group.GID)
		}
		return fmt.Sprintf("%s %s -g %d -M %s", a.Op, a.Name, a.Group.GID, a.Group.Members)
	default:
		return fmt.Sprintf("%s %s", a.Op, a.Name)
	}
}

// Applier is the privileged store mutation primitive. Implementations report
// failure per operation; the engine never escalates an apply error.
type Applier interface {
	Apply(ctx context.Context, action Action) error
}

// Outcome is the result of one per-entity decision.
type Outcome int

const (
	// OutcomeNoop means the entity was already consistent.
	OutcomeNoop Outcome = iota
	// OutcomeApplied means a mutation was applied (or would have been, in
	// dry-run) and the cache advanced.
	OutcomeApplied
	// OutcomeFailed means the apply call failed; the cache was not advanced.
	OutcomeFailed
	// OutcomeSkipped means the entity was exempt (protected name, empty
	// membership guard, preservation flag).
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Options controls engine behavior.
type Options struct {
	// DryRun suppresses applier calls; decisions and the cache proceed as if
	// every apply succeeded.
	DryRun bool

	// Preserve skips the deletion pass: stale local entries are logged but
	// kept.
	Preserve bool
}

// Summary provides aggregate counts for one run.
type Summary struct {
	UsersCreated   int
	UsersModified  int
	UsersDeleted   int
	GroupsCreated  int
	GroupsModified int
	GroupsDeleted  int
	Noops          int
	Failed         int
	Preserved      int
}

// Changes is the total number of applied mutations.
func (s Summary) Changes() int {
	return s.UsersCreated + s.UsersModified + s.UsersDeleted +
		s.GroupsCreated + s.GroupsModified + s.GroupsDeleted
}
