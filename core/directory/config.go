package directory

import (
	"fmt"
	"strings"
)

// Config holds configuration for the directory connection and searches.
type Config struct {
	// Servers is the ordered, space-separated list of candidate server URLs
	// (e.g. "ldaps://dc1.example.com ldaps://dc2.example.com"). Tried in
	// order; all failing is fatal.
	Servers string `mapstructure:"servers" default:""`
	// BaseDN is the search base for user and group queries.
	BaseDN string `mapstructure:"base_dn"`
	// BindDN is the identity used for a simple bind. Empty for anonymous.
	BindDN string `mapstructure:"bind_dn" default:""`
	// BindPassword is the simple bind password.
	BindPassword string `mapstructure:"bind_password" default:""`
	// UserFilter selects the user entries to harvest.
	UserFilter string `mapstructure:"user_filter" default:"(&(objectclass=user)(uidnumber=*))"`
	// GroupFilter selects the group entries to harvest.
	GroupFilter string `mapstructure:"group_filter" default:"(&(objectclass=group)(gidnumber=*))"`
	// PageSize is the paged-search page size.
	PageSize int `mapstructure:"page_size" default:"500"`
}

// ServerList returns the candidate servers in configured order.
func (c Config) ServerList() []string {
	return strings.Fields(c.Servers)
}

// Validate checks that the configuration is complete enough to connect.
func (c Config) Validate() error {
	if len(c.ServerList()) == 0 {
		return fmt.Errorf("directory: no servers configured")
	}
	if c.BaseDN == "" {
		return fmt.Errorf("directory: base_dn is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("directory: page_size must be positive, got %d", c.PageSize)
	}
	return nil
}
