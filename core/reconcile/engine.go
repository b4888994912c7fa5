package reconcile

import (
	"context"

	"dirsync/core/account"

	"go.uber.org/zap"
)

// Engine runs one reconciliation pass of the directory snapshot against the
// local snapshot. It is single-use and single-threaded: one Engine, one run.
type Engine struct {
	applier   Applier
	cache     *Cache
	protected account.Protected
	opts      Options
	log       *zap.Logger
	sum       Summary
}

// NewEngine builds an engine seeded with the local snapshot.
func NewEngine(applier Applier, local *account.Snapshot, protected account.Protected, opts Options, log *zap.Logger) *Engine {
	return &Engine{
		applier:   applier,
		cache:     NewCache(local),
		protected: protected,
		opts:      opts,
		log:       log,
	}
}

// Sync executes the four passes in order, each completing before the next
// begins. Entity keys are iterated in sorted order within every pass so the
// trace is reproducible across runs on identical input.
func (e *Engine) Sync(ctx context.Context, dir *account.Snapshot) Summary {
	e.createGroups(ctx, dir)
	e.syncUsers(ctx, dir)
	e.syncGroups(ctx, dir)
	e.deleteStale(ctx, dir)
	return e.sum
}

// createGroups creates every directory group absent locally, with gid only
// and empty membership. Full membership application is deferred to
// syncGroups; creation comes first because a user created in the next pass
// may reference the group as its primary group.
func (e *Engine) createGroups(ctx context.Context, dir *account.Snapshot) {
	for _, name := range sortedNames(dir.Groups) {
		if e.skipProtected(name) {
			continue
		}
		if _, ok := e.cache.Group(name); ok {
			continue
		}

		created := &account.Group{Name: name, GID: dir.Groups[name].GID}
		if e.apply(ctx, Action{Op: OpCreateGroup, Name: name, Group: created}, "missing locally") == OutcomeApplied {
			e.cache.PutGroup(created)
			e.sum.GroupsCreated++
		}
	}
}

// syncUsers creates or rewrites every directory user whose local record is
// absent or differs in any field. Exact tuple equality is required for a
// no-op; a single differing field forces a full rewrite of all fields.
func (e *Engine) syncUsers(ctx context.Context, dir *account.Snapshot) {
	for _, name := range sortedNames(dir.Users) {
		if e.skipProtected(name) {
			continue
		}

		want := dir.Users[name]
		have, exists := e.cache.User(name)

		var action Action
		var reason string
		switch {
		case !exists:
			action = Action{Op: OpCreateUser, Name: name, User: want}
			reason = "missing locally"
		case have.Equal(want):
			e.noop("user", name)
			continue
		default:
			action = Action{Op: OpModifyUser, Name: name, User: want}
			reason = "field mismatch"
		}

		if e.apply(ctx, action, reason) == OutcomeApplied {
			e.cache.PutUser(want)
			if action.Op == OpCreateUser {
				e.sum.UsersCreated++
			} else {
				e.sum.UsersModified++
			}
		}
	}
}

// syncGroups creates or rewrites directory groups whose (gid, members) tuple
// differs locally. Groups with an empty membership string are skipped: an
// unresolved or degenerate group must never overwrite local membership.
func (e *Engine) syncGroups(ctx context.Context, dir *account.Snapshot) {
	for _, name := range sortedNames(dir.Groups) {
		if e.skipProtected(name) {
			continue
		}

		want := dir.Groups[name]
		if want.Members == "" {
			e.log.Debug("skipping group with empty membership", zap.String("group", name))
			continue
		}

		have, exists := e.cache.Group(name)

		var action Action
		var reason string
		switch {
		case !exists:
			action = Action{Op: OpCreateGroup, Name: name, Group: want}
			reason = "missing locally"
		case have.Equal(want):
			e.noop("group", name)
			continue
		default:
			action = Action{Op: OpModifyGroup, Name: name, Group: want}
			reason = "gid or membership mismatch"
		}

		if e.apply(ctx, action, reason) == OutcomeApplied {
			e.cache.PutGroup(want)
			if action.Op == OpCreateGroup {
				e.sum.GroupsCreated++
			} else {
				e.sum.GroupsModified++
			}
		}
	}
}

// deleteStale removes local users, then local groups, absent from the
// directory snapshot. Users go first for the same dependency reason creates
// are ordered the other way around. With Preserve set, stale entries are
// logged and kept.
func (e *Engine) deleteStale(ctx context.Context, dir *account.Snapshot) {
	for _, name := range e.cache.UserNames() {
		if e.skipProtected(name) {
			continue
		}
		if _, ok := dir.Users[name]; ok {
			continue
		}
		if e.opts.Preserve {
			e.log.Info("preserving stale local user", zap.String("user", name))
			e.sum.Preserved++
			continue
		}
		if e.apply(ctx, Action{Op: OpDeleteUser, Name: name}, "absent from directory") == OutcomeApplied {
			e.cache.DeleteUser(name)
			e.sum.UsersDeleted++
		}
	}

	for _, name := range e.cache.GroupNames() {
		if e.skipProtected(name) {
			continue
		}
		if _, ok := dir.Groups[name]; ok {
			continue
		}
		if e.opts.Preserve {
			e.log.Info("preserving stale local group", zap.String("group", name))
			e.sum.Preserved++
			continue
		}
		if e.apply(ctx, Action{Op: OpDeleteGroup, Name: name}, "absent from directory") == OutcomeApplied {
			e.cache.DeleteGroup(name)
			e.sum.GroupsDeleted++
		}
	}
}

// apply invokes the privileged primitive for one action. In dry-run mode the
// call is suppressed and treated as a success so the cache and the trace
// advance exactly as a real run would. A failure is isolated to this one
// entity.
func (e *Engine) apply(ctx context.Context, a Action, reason string) Outcome {
	if e.opts.DryRun {
		e.log.Info("would apply", zap.Stringer("action", a), zap.String("reason", reason))
		return OutcomeApplied
	}

	if err := e.applier.Apply(ctx, a); err != nil {
		e.log.Error("apply failed", zap.Stringer("action", a), zap.Error(err))
		e.sum.Failed++
		return OutcomeFailed
	}

	e.log.Info("applied", zap.Stringer("action", a), zap.String("reason", reason))
	return OutcomeApplied
}

func (e *Engine) skipProtected(name string) bool {
	if e.protected.Contains(name) {
		e.log.Debug("skipping protected name", zap.String("name", name))
		return true
	}
	return false
}

func (e *Engine) noop(kind, name string) {
	e.log.Debug("already consistent", zap.String(kind, name))
	e.sum.Noops++
}
