package account

import "path"

// Filter holds the optional name-matching patterns applied during harvest.
// A zero Filter matches everything. Patterns use path.Match glob syntax
// (e.g. "svc-*"). The same Filter instance is handed to both harvesters so
// both sides are comparably scoped.
type Filter struct {
	// UserPattern restricts which user names are harvested.
	UserPattern string

	// GroupPattern restricts which group names are harvested.
	GroupPattern string
}

// MatchUser reports whether a user name passes the filter.
func (f Filter) MatchUser(name string) bool {
	return match(f.UserPattern, name)
}

// MatchGroup reports whether a group name passes the filter.
func (f Filter) MatchGroup(name string) bool {
	return match(f.GroupPattern, name)
}

func match(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, name)
	if err != nil {
		// Malformed patterns are rejected at config validation; treat a
		// pattern that slipped through as matching nothing.
		return false
	}
	return ok
}

// Validate reports whether both patterns are syntactically valid globs.
func (f Filter) Validate() error {
	if _, err := path.Match(f.UserPattern, ""); f.UserPattern != "" && err != nil {
		return err
	}
	if _, err := path.Match(f.GroupPattern, ""); f.GroupPattern != "" && err != nil {
		return err
	}
	return nil
}
