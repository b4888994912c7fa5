package account

const (
	// MinUID is the smallest user id allowed into reconciliation.
	// Entries below the threshold are system accounts and never harvested.
	MinUID = 1000

	// MinGID is the smallest group id allowed into reconciliation.
	MinGID = 1000
)

// Reserved account names that are never harvested from either source.
const (
	NobodyUser  = "nobody"
	NobodyGroup = "nobody"
	NogroupName = "nogroup"
)

// User is the normalized shape of a user record from either source.
type User struct {
	// Name is the login name. Unique within a source.
	Name string

	// UID is the numeric user id. Unique within a source, always >= MinUID.
	UID int

	// GID is the numeric id of the primary group.
	GID int

	// Gecos is the comment field (usually the display name).
	Gecos string

	// Home is the home directory path.
	Home string

	// Shell is the login shell path.
	Shell string

	// Groups lists the names of groups this user was resolved into.
	// Diagnostics only; never compared.
	Groups []string
}

// Equal reports whether the comparable fields of two user records match.
// Name is the lookup key and is not part of the tuple.
func (u *User) Equal(other *User) bool {
	return u.UID == other.UID &&
		u.GID == other.GID &&
		u.Gecos == other.Gecos &&
		u.Home == other.Home &&
		u.Shell == other.Shell
}

// Group is the normalized shape of a group record from either source.
type Group struct {
	// Name is the group name. Unique within a source.
	Name string

	// GID is the numeric group id, always >= MinGID.
	GID int

	// Members is the canonical membership string: member names sorted in
	// byte order and comma-joined, empty if the group has no members.
	Members string
}

// Equal reports whether the comparable fields of two group records match.
func (g *Group) Equal(other *Group) bool {
	return g.GID == other.GID && g.Members == other.Members
}

// Snapshot is one source's normalized view of users and groups, keyed by
// name, with membership already flattened into the canonical string. Both
// harvesters produce this shape; it lives for one run and is never persisted.
type Snapshot struct {
	Users  map[string]*User
	Groups map[string]*Group
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:  make(map[string]*User),
		Groups: make(map[string]*Group),
	}
}

// ReservedUser reports whether name is excluded from user harvesting.
func ReservedUser(name string) bool {
	return name == NobodyUser
}

// ReservedGroup reports whether name is excluded from group harvesting.
func ReservedGroup(name string) bool {
	return name == NobodyGroup || name == NogroupName
}
