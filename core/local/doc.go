// Package local enumerates the host's account database into the shared
// record shapes and provides the privileged apply primitive the reconcile
// engine mutates it through.
//
// The Store interface yields raw user and group tuples; the production
// implementation parses passwd(5) and group(5) files. The Harvester applies
// the same numeric-id thresholds, reserved-name exclusions, optional name
// filters, and primary-group normalization as the directory side, so a group
// whose store-native member ordering differs from the directory's still
// compares equal.
//
// The protected set — the administrative group's members — is read here,
// before any filtering, because administrative accounts usually sit below
// the harvest threshold.
//
// ExecApplier shells out to the system account tools (useradd, usermod,
// userdel, groupadd, groupdel, gpasswd). A nonzero exit is reported to the
// engine as a per-operation failure, never escalated.
package local
