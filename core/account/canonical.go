package account

import (
	"sort"
	"strings"
)

// FlattenNames builds the canonical membership string from a name-keyed
// member set: names sorted in byte order, comma-joined, no trailing
// separator. The result is byte-identical for any input ordering of the same
// set, which is what makes membership comparison stable across runs.
func FlattenNames[V any](names map[string]V) string {
	if len(names) == 0 {
		return ""
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	return strings.Join(sorted, ",")
}

// SplitMembers parses a store-native membership string into a name set.
// Stores disagree on separators (comma in group(5), whitespace elsewhere),
// so both are accepted. Empty fields are dropped.
func SplitMembers(raw string) map[string]struct{} {
	names := make(map[string]struct{})
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		names[f] = struct{}{}
	}
	return names
}
