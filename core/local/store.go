package local

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds configuration for the local account store.
type Config struct {
	// PasswdPath is the passwd(5) file to enumerate.
	PasswdPath string `mapstructure:"passwd_path" default:"/etc/passwd"`
	// GroupPath is the group(5) file to enumerate.
	GroupPath string `mapstructure:"group_path" default:"/etc/group"`
	// ProtectedGroup is the administrative group whose members are exempt
	// from all reconcile operations.
	ProtectedGroup string `mapstructure:"protected_group" default:"wheel"`
}

// UserEntry is a raw user tuple as the store yields it.
type UserEntry struct {
	Name  string
	UID   int
	GID   int
	Gecos string
	Home  string
	Shell string
}

// GroupEntry is a raw group tuple. Members is the store-native flat member
// list, still unparsed.
type GroupEntry struct {
	Name    string
	GID     int
	Members string
}

// Store is ordered read access to the local account database.
type Store interface {
	Users() ([]UserEntry, error)
	Groups() ([]GroupEntry, error)
}

// FileStore reads passwd(5) and group(5) files.
type FileStore struct {
	cfg Config
}

// NewFileStore builds a store over the configured files.
func NewFileStore(cfg Config) *FileStore {
	return &FileStore{cfg: cfg}
}

// Users parses the passwd file. Lines with the wrong field count or
// non-numeric ids are malformed local data and fail the enumeration.
func (s *FileStore) Users() ([]UserEntry, error) {
	var users []UserEntry
	err := scanLines(s.cfg.PasswdPath, func(line string) error {
		// name:passwd:uid:gid:gecos:home:shell
		fields := strings.Split(line, ":")
		if len(fields) != 7 {
			return fmt.Errorf("malformed passwd line %q", line)
		}
		uid, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("malformed uid in passwd line %q", line)
		}
		gid, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("malformed gid in passwd line %q", line)
		}
		users = append(users, UserEntry{
			Name:  fields[0],
			UID:   uid,
			GID:   gid,
			Gecos: fields[4],
			Home:  fields[5],
			Shell: fields[6],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Groups parses the group file.
func (s *FileStore) Groups() ([]GroupEntry, error) {
	var groups []GroupEntry
	err := scanLines(s.cfg.GroupPath, func(line string) error {
		// name:passwd:gid:members
		fields := strings.Split(line, ":")
		if len(fields) != 4 {
			return fmt.Errorf("malformed group line %q", line)
		}
		gid, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("malformed gid in group line %q", line)
		}
		groups = append(groups, GroupEntry{
			Name:    fields[0],
			GID:     gid,
			Members: fields[3],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func scanLines(path string, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
