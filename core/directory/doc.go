// Package directory harvests user and group records from an LDAP directory
// and normalizes them into the shapes the reconcile engine compares.
//
// The harvester is split from the transport: Client speaks LDAP (connection
// candidates, bind, transparent result paging) and exposes the narrow
// Searcher interface; Harvester consumes a Searcher, so tests drive it with
// an in-memory fake.
//
// # Harvest pipeline
//
// A harvest runs these steps in order:
//
//  1. Fetch raw user and group entries, keyed by DN. Entries missing
//     required attributes are skipped, never fatal.
//  2. Apply reserved-name exclusions, the optional name filters, and the
//     numeric-id threshold — in that order.
//  3. Merge home/shell overrides into every user record.
//  4. Resolve nested group membership: a group's member references may point
//     at users or at other groups; resolution is a memoized depth-first walk
//     that tolerates dangling references and breaks cycles.
//  5. Add every user to the member set of the group matching its primary
//     GID, whether or not the directory listed it.
//  6. Flatten each member set into the canonical sorted string and re-key
//     both maps from DN to name.
//  7. Synthesize an empty personal group for any user whose primary GID
//     matches no harvested group.
//
// Search or connection failures are fatal for the run: the engine never
// mutates local state from an incomplete directory snapshot.
package directory
