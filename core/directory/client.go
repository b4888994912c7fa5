package directory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// Attributes is the attribute bag of a single directory entry, keyed by
// lowercased attribute name.
type Attributes map[string][]string

// First returns the first value of an attribute, or "" if absent.
func (a Attributes) First(name string) string {
	if vals, ok := a[name]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Searcher is the query surface the harvester needs from a directory
// connection: one filtered search returning every matching entry keyed by DN.
type Searcher interface {
	Search(filter string, attrs []string) (map[string]Attributes, error)
}

// searchConn is the slice of an LDAP session the client needs once dialed
// and bound.
type searchConn interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// Client is an LDAP-backed Searcher. One Client holds one long-lived session
// for the duration of a run.
type Client struct {
	conn searchConn
	cfg  Config
	log  *zap.Logger
}

// Connect dials the candidate servers in order and returns a client bound to
// the first one that accepts the connection (and bind, if configured).
// Exhausting all candidates is fatal for the run.
func Connect(cfg Config, log *zap.Logger) (*Client, error) {
	var lastErr error
	for _, url := range cfg.ServerList() {
		conn, err := ldap.DialURL(url)
		if err != nil {
			log.Warn("directory server unreachable", zap.String("server", url), zap.Error(err))
			lastErr = err
			continue
		}

		if cfg.BindDN != "" {
			if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
				log.Warn("directory bind failed", zap.String("server", url), zap.Error(err))
				_ = conn.Close()
				lastErr = err
				continue
			}
		}

		log.Info("connected to directory", zap.String("server", url))
		return &Client{conn: conn, cfg: cfg, log: log}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no candidate servers")
	}
	return nil, fmt.Errorf("all directory servers failed: %w", lastErr)
}

// Search runs a paged search under the configured base and accumulates all
// pages into one map keyed by DN. Pages are merged; on a key collision the
// later page wins (DNs are unique, so this is effectively a union).
func (c *Client) Search(filter string, attrs []string) (map[string]Attributes, error) {
	entries := make(map[string]Attributes)
	paging := ldap.NewControlPaging(uint32(c.cfg.PageSize))

	for {
		req := ldap.NewSearchRequest(
			c.cfg.BaseDN,
			ldap.ScopeWholeSubtree,
			ldap.NeverDerefAliases,
			0, 0, false,
			filter,
			attrs,
			[]ldap.Control{paging},
		)

		res, err := c.conn.Search(req)
		if err != nil {
			return nil, fmt.Errorf("directory search %q: %w", filter, err)
		}

		for _, e := range res.Entries {
			bag := make(Attributes, len(e.Attributes))
			for _, a := range e.Attributes {
				bag[strings.ToLower(a.Name)] = a.Values
			}
			entries[e.DN] = bag
		}

		ctrl, ok := ldap.FindControl(res.Controls, ldap.ControlTypePaging).(*ldap.ControlPaging)
		if !ok || len(ctrl.Cookie) == 0 {
			break
		}
		paging.SetCookie(ctrl.Cookie)
	}

	c.log.Debug("directory search complete",
		zap.String("filter", filter),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// Close terminates the directory session.
func (c *Client) Close() error {
	return c.conn.Close()
}
