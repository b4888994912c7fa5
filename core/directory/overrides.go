package directory

import (
	"fmt"
	"strings"

	"dirsync/core/account"
)

// Overrides are externally supplied key=value pairs that take precedence
// over directory-supplied values for every user record. Only home and shell
// are recognized, and values must be absolute paths.
type Overrides map[string]string

const (
	overrideHome  = "home"
	overrideShell = "shell"
)

// ParseOverrides validates and parses raw key=value pairs.
func ParseOverrides(pairs []string) (Overrides, error) {
	o := make(Overrides, len(pairs))
	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("override %q: expected key=value", p)
		}
		switch key {
		case overrideHome, overrideShell:
		default:
			return nil, fmt.Errorf("override %q: unknown key (want home or shell)", key)
		}
		if !strings.HasPrefix(val, "/") {
			return nil, fmt.Errorf("override %q: value must be an absolute path", p)
		}
		o[key] = val
	}
	return o, nil
}

// Apply merges the overrides into a user record.
func (o Overrides) Apply(u *account.User) {
	if v, ok := o[overrideHome]; ok {
		u.Home = v
	}
	if v, ok := o[overrideShell]; ok {
		u.Shell = v
	}
}
