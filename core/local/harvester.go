package local

import (
	"fmt"

	"dirsync/core/account"

	"go.uber.org/zap"
)

// Harvester enumerates the local store into the shared snapshot shape.
type Harvester struct {
	store  Store
	cfg    Config
	filter account.Filter
	log    *zap.Logger
}

// NewHarvester builds a harvester over a Store.
func NewHarvester(store Store, cfg Config, filter account.Filter, log *zap.Logger) *Harvester {
	return &Harvester{store: store, cfg: cfg, filter: filter, log: log}
}

// Harvest enumerates local users and groups with the same thresholds,
// exclusions and filters as the directory side, and reads the protected set
// from the administrative group's raw membership. Enumeration failure is
// fatal: the engine never runs against a partial local view.
func (h *Harvester) Harvest() (*account.Snapshot, account.Protected, error) {
	rawUsers, err := h.store.Users()
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate local users: %w", err)
	}
	rawGroups, err := h.store.Groups()
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate local groups: %w", err)
	}

	protected := h.protectedSet(rawGroups)
	snap := account.NewSnapshot()

	for _, e := range rawUsers {
		if account.ReservedUser(e.Name) || !h.filter.MatchUser(e.Name) {
			continue
		}
		if e.UID < account.MinUID {
			continue
		}
		snap.Users[e.Name] = &account.User{
			Name:  e.Name,
			UID:   e.UID,
			GID:   e.GID,
			Gecos: e.Gecos,
			Home:  e.Home,
			Shell: e.Shell,
		}
	}

	// Membership is restricted to harvested users so that store entries
	// outside the comparison scope (system accounts, filtered names) never
	// show up as spurious diffs against the directory side.
	members := make(map[string]map[string]struct{})
	byGID := make(map[int]string)
	for _, e := range rawGroups {
		if account.ReservedGroup(e.Name) || !h.filter.MatchGroup(e.Name) {
			continue
		}
		if e.GID < account.MinGID {
			continue
		}

		set := make(map[string]struct{})
		for name := range account.SplitMembers(e.Members) {
			if _, known := snap.Users[name]; known {
				set[name] = struct{}{}
			}
		}
		members[e.Name] = set
		if _, ok := byGID[e.GID]; !ok {
			byGID[e.GID] = e.Name
		}
		snap.Groups[e.Name] = &account.Group{Name: e.Name, GID: e.GID}
	}

	// Same primary-group normalization as the directory side: membership of
	// the primary group is implicit in the passwd gid and must not diff.
	for name, u := range snap.Users {
		if gname, ok := byGID[u.GID]; ok {
			members[gname][name] = struct{}{}
		}
	}

	for name, g := range snap.Groups {
		g.Members = account.FlattenNames(members[name])
	}

	h.log.Debug("harvested local store",
		zap.Int("users", len(snap.Users)),
		zap.Int("groups", len(snap.Groups)),
		zap.Int("protected", len(protected)),
	)
	return snap, protected, nil
}

// protectedSet reads the administrative group's member list from the raw
// group entries, before any filtering.
func (h *Harvester) protectedSet(rawGroups []GroupEntry) account.Protected {
	for _, e := range rawGroups {
		if e.Name != h.cfg.ProtectedGroup {
			continue
		}
		p := make(account.Protected)
		for name := range account.SplitMembers(e.Members) {
			p[name] = struct{}{}
		}
		return p
	}
	h.log.Warn("protected group not found in local store",
		zap.String("group", h.cfg.ProtectedGroup))
	return account.Protected{}
}
