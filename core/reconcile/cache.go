package reconcile

import (
	"sort"

	"dirsync/core/account"
)

// Cache mirrors local state as it will be after applied changes. It is
// seeded from the local harvest and advanced after every successful apply,
// so decisions later in the run see post-change state without re-reading the
// store. It is a transient overlay owned by exactly one run, never persisted
// and never shared across goroutines.
type Cache struct {
	users  map[string]*account.User
	groups map[string]*account.Group
}

// NewCache seeds a cache from the local snapshot.
func NewCache(snap *account.Snapshot) *Cache {
	c := &Cache{
		users:  make(map[string]*account.User, len(snap.Users)),
		groups: make(map[string]*account.Group, len(snap.Groups)),
	}
	for name, u := range snap.Users {
		c.users[name] = u
	}
	for name, g := range snap.Groups {
		c.groups[name] = g
	}
	return c
}

// User returns the cached local user record, if any.
func (c *Cache) User(name string) (*account.User, bool) {
	u, ok := c.users[name]
	return u, ok
}

// Group returns the cached local group record, if any.
func (c *Cache) Group(name string) (*account.Group, bool) {
	g, ok := c.groups[name]
	return g, ok
}

// PutUser records a user as just applied.
func (c *Cache) PutUser(u *account.User) {
	c.users[u.Name] = u
}

// PutGroup records a group as just applied.
func (c *Cache) PutGroup(g *account.Group) {
	c.groups[g.Name] = g
}

// DeleteUser removes a user after a successful delete.
func (c *Cache) DeleteUser(name string) {
	delete(c.users, name)
}

// DeleteGroup removes a group after a successful delete.
func (c *Cache) DeleteGroup(name string) {
	delete(c.groups, name)
}

// UserNames returns the cached user names in sorted order.
func (c *Cache) UserNames() []string {
	return sortedNames(c.users)
}

// GroupNames returns the cached group names in sorted order.
func (c *Cache) GroupNames() []string {
	return sortedNames(c.groups)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
