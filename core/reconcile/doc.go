// Package reconcile computes and applies the difference between the
// directory-derived and locally-stored account snapshots.
//
// # Architecture
//
// The engine consists of three parts:
//
//  1. Engine: four ordered passes over sorted key unions — create missing
//     groups, create/modify users, create/modify group membership, delete
//     stale users then stale groups. The ordering respects referential
//     constraints: a group must exist before a user references it as a
//     primary group, and users are deleted before the groups they depend on.
//  2. Applier: the privileged mutation primitive. The engine only ever sees
//     success or failure; a failure aborts that single operation and the run
//     continues with the next entity.
//  3. Cache: an in-memory mirror of local state as it will be after applied
//     changes, advanced optimistically after every successful apply so later
//     decisions in the same run see a consistent picture without re-reading
//     the store.
//
// Every per-entity decision resolves to an explicit Outcome — no-op, applied,
// or failed — so callers and tests can assert on all three unambiguously.
//
// # Dry-run
//
// In dry-run mode every comparison and decision proceeds identically; only
// the applier call is suppressed and treated as a success, so the cache
// advances as if the change had been made and the reported trace matches a
// real run exactly.
package reconcile
