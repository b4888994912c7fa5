package directory

import (
	"fmt"
	"sort"
	"strconv"

	"dirsync/core/account"

	"go.uber.org/zap"
)

// Attribute names requested from the directory. The client lowercases
// attribute names in returned bags, so lookups here are lowercase too.
const (
	attrUserName  = "uid"
	attrUID       = "uidnumber"
	attrGID       = "gidnumber"
	attrGecos     = "gecos"
	attrHome      = "homedirectory"
	attrShell     = "loginshell"
	attrGroupName = "cn"
	attrMember    = "member"
)

// Harvester queries the directory and normalizes entries into an
// account.Snapshot.
type Harvester struct {
	searcher Searcher
	cfg      Config
	filter   account.Filter
	over     Overrides
	log      *zap.Logger

	// Intermediate state, keyed by DN until finalization.
	users  map[string]*account.User
	groups map[string]*dirGroup
}

// NewHarvester builds a harvester on top of a Searcher.
func NewHarvester(searcher Searcher, cfg Config, filter account.Filter, over Overrides, log *zap.Logger) *Harvester {
	return &Harvester{
		searcher: searcher,
		cfg:      cfg,
		filter:   filter,
		over:     over,
		log:      log,
	}
}

// Harvest runs the full pipeline: fetch, resolve, normalize, flatten, re-key.
// Any search failure is returned as-is and aborts the run.
func (h *Harvester) Harvest() (*account.Snapshot, error) {
	if err := h.fetchUsers(); err != nil {
		return nil, err
	}
	if err := h.fetchGroups(); err != nil {
		return nil, err
	}

	h.resolveMembership()
	h.normalizePrimaryGroups()

	return h.finalize(), nil
}

// fetchUsers loads user entries keyed by DN. Entries missing a required
// attribute (name, numeric ids, home and shell after override merge) are
// skipped, not fatal: directory data is assumed occasionally inconsistent.
func (h *Harvester) fetchUsers() error {
	attrs := []string{attrUserName, attrUID, attrGID, attrGecos, attrHome, attrShell}
	entries, err := h.searcher.Search(h.cfg.UserFilter, attrs)
	if err != nil {
		return fmt.Errorf("fetch users: %w", err)
	}

	h.users = make(map[string]*account.User, len(entries))
	for dn, bag := range entries {
		user, ok := h.extractUser(dn, bag)
		if !ok {
			continue
		}
		h.users[dn] = user
	}

	h.log.Debug("harvested directory users", zap.Int("count", len(h.users)))
	return nil
}

func (h *Harvester) extractUser(dn string, bag Attributes) (*account.User, bool) {
	name := bag.First(attrUserName)
	if name == "" {
		h.skip("user", dn, "missing name")
		return nil, false
	}

	// Exclusions run before the numeric threshold so diagnostics stay
	// consistent between the directory and local sides.
	if account.ReservedUser(name) || !h.filter.MatchUser(name) {
		return nil, false
	}

	uid, err := strconv.Atoi(bag.First(attrUID))
	if err != nil {
		h.skip("user", dn, "missing or malformed uid")
		return nil, false
	}
	gid, err := strconv.Atoi(bag.First(attrGID))
	if err != nil {
		h.skip("user", dn, "missing or malformed gid")
		return nil, false
	}

	user := &account.User{
		Name:  name,
		UID:   uid,
		GID:   gid,
		Gecos: bag.First(attrGecos),
		Home:  bag.First(attrHome),
		Shell: bag.First(attrShell),
	}
	h.over.Apply(user)

	if user.Home == "" {
		h.skip("user", dn, "missing home")
		return nil, false
	}
	if user.Shell == "" {
		h.skip("user", dn, "missing shell")
		return nil, false
	}

	if user.UID < account.MinUID {
		return nil, false
	}

	return user, true
}

// fetchGroups loads group entries keyed by DN, keeping raw member
// references for the resolution pass.
func (h *Harvester) fetchGroups() error {
	attrs := []string{attrGroupName, attrGID, attrMember}
	entries, err := h.searcher.Search(h.cfg.GroupFilter, attrs)
	if err != nil {
		return fmt.Errorf("fetch groups: %w", err)
	}

	h.groups = make(map[string]*dirGroup, len(entries))
	for dn, bag := range entries {
		name := bag.First(attrGroupName)
		if name == "" {
			h.skip("group", dn, "missing name")
			continue
		}
		if account.ReservedGroup(name) || !h.filter.MatchGroup(name) {
			continue
		}

		gid, err := strconv.Atoi(bag.First(attrGID))
		if err != nil {
			h.skip("group", dn, "missing or malformed gid")
			continue
		}
		if gid < account.MinGID {
			continue
		}

		h.groups[dn] = &dirGroup{
			group:   &account.Group{Name: name, GID: gid},
			rawRefs: bag[attrMember],
		}
	}

	h.log.Debug("harvested directory groups", zap.Int("count", len(h.groups)))
	return nil
}

// normalizePrimaryGroups adds every user to the member set of the group
// matching its primary GID, whether or not the directory listed it. Some
// directories omit self-membership of the primary group.
func (h *Harvester) normalizePrimaryGroups() {
	byGID := make(map[int]*dirGroup, len(h.groups))
	for _, dn := range sortedKeys(h.groups) {
		g := h.groups[dn]
		if _, ok := byGID[g.group.GID]; !ok {
			byGID[g.group.GID] = g
		}
	}

	for _, dn := range sortedKeys(h.users) {
		u := h.users[dn]
		if g, ok := byGID[u.GID]; ok {
			g.addMember(u)
		}
	}
}

// finalize flattens membership, re-keys both maps from DN to name, and
// synthesizes an empty personal group for any user whose primary GID matches
// no harvested group. Personal groups carry no members so the engine creates
// them but never rewrites their membership; the local side's primary-group
// normalization keeps re-runs quiet.
func (h *Harvester) finalize() *account.Snapshot {
	snap := account.NewSnapshot()

	for _, dn := range sortedKeys(h.users) {
		u := h.users[dn]
		if _, dup := snap.Users[u.Name]; dup {
			h.log.Warn("duplicate user name in directory", zap.String("name", u.Name), zap.String("dn", dn))
			continue
		}
		snap.Users[u.Name] = u
	}

	gids := make(map[int]struct{}, len(h.groups))
	for _, dn := range sortedKeys(h.groups) {
		g := h.groups[dn]
		if _, dup := snap.Groups[g.group.Name]; dup {
			h.log.Warn("duplicate group name in directory", zap.String("name", g.group.Name), zap.String("dn", dn))
			continue
		}
		g.group.Members = account.FlattenNames(g.members)
		snap.Groups[g.group.Name] = g.group
		gids[g.group.GID] = struct{}{}
	}

	for _, name := range sortedKeys(snap.Users) {
		u := snap.Users[name]
		if _, ok := gids[u.GID]; ok {
			continue
		}
		if u.GID < account.MinGID {
			h.log.Warn("cannot synthesize personal group, gid below threshold",
				zap.String("user", u.Name), zap.Int("gid", u.GID))
			continue
		}
		if _, taken := snap.Groups[u.Name]; taken {
			h.log.Warn("cannot synthesize personal group, name taken",
				zap.String("user", u.Name), zap.Int("gid", u.GID))
			continue
		}
		snap.Groups[u.Name] = &account.Group{Name: u.Name, GID: u.GID}
		gids[u.GID] = struct{}{}
		h.log.Debug("synthesized personal group", zap.String("name", u.Name), zap.Int("gid", u.GID))
	}

	return snap
}

func (h *Harvester) skip(kind, dn, reason string) {
	h.log.Debug("skipping directory entry",
		zap.String("kind", kind),
		zap.String("dn", dn),
		zap.String("reason", reason),
	)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
