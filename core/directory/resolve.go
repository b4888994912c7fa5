package directory

import (
	"dirsync/core/account"

	"go.uber.org/zap"
)

// resolveState tracks the memoization of a group's membership resolution.
// The resolving marker is distinct from resolved-with-no-members so that
// cycle breaking is explicit rather than an accident of empty-map semantics.
type resolveState int

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
)

// dirGroup is a group entry during resolution: the record under
// construction, the raw member references (DNs of users or other groups),
// and the resolved members keyed by user name.
type dirGroup struct {
	group   *account.Group
	rawRefs []string
	members map[string]*account.User
	state   resolveState
}

// addMember adds a user to the group and records the back-reference on the
// user for diagnostics. Idempotent per user.
func (g *dirGroup) addMember(u *account.User) {
	if g.members == nil {
		g.members = make(map[string]*account.User)
	}
	if _, ok := g.members[u.Name]; ok {
		return
	}
	g.members[u.Name] = u
	u.Groups = append(u.Groups, g.group.Name)
}

// resolveMembership walks every harvested group and resolves its member
// references into a flat set of user names. Groups are visited in sorted DN
// order so diagnostics are reproducible.
func (h *Harvester) resolveMembership() {
	for _, dn := range sortedKeys(h.groups) {
		h.resolveGroup(dn, h.groups[dn])
	}
}

// resolveGroup resolves one group, recursing into nested groups first and
// unioning in their user members. Resolution is memoized per group: a group
// already resolved short-circuits, and a group whose resolution is in
// progress is a cycle — it returns whatever members it has so far, which may
// under-resolve one side of the cycle. That case is logged distinctly from a
// dangling reference.
func (h *Harvester) resolveGroup(dn string, g *dirGroup) map[string]*account.User {
	switch g.state {
	case stateResolved:
		return g.members
	case stateResolving:
		h.log.Warn("membership cycle detected, group may be incomplete",
			zap.String("group", g.group.Name))
		return g.members
	}

	g.state = stateResolving
	if g.members == nil {
		g.members = make(map[string]*account.User)
	}

	for _, ref := range g.rawRefs {
		if nested, ok := h.groups[ref]; ok {
			for name, u := range h.resolveGroup(ref, nested) {
				if _, seen := g.members[name]; seen {
					continue
				}
				g.addMember(u)
				h.log.Debug("member inherited from nested group",
					zap.String("group", g.group.Name),
					zap.String("via", nested.group.Name),
					zap.String("member", name),
				)
			}
			continue
		}

		if u, ok := h.users[ref]; ok {
			g.addMember(u)
			continue
		}

		h.log.Debug("dangling member reference",
			zap.String("group", g.group.Name),
			zap.String("ref", ref),
		)
	}

	g.state = stateResolved
	return g.members
}
