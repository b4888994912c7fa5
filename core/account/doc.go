// Package account defines the common user and group record shapes shared by
// the directory and local harvesters and consumed by the reconcile engine.
//
// Both harvesters normalize their source data into these shapes so that a
// field-for-field comparison is meaningful: identical numeric-id thresholds,
// identical reserved-name exclusions, identical optional name filters, and
// one canonical membership representation (names sorted in byte order,
// comma-joined).
//
// # Protected set
//
// The Protected type holds the names of the local administrative group's
// members. These accounts are exempt from every reconcile operation,
// regardless of what the directory says. The set is read once at harvest
// time and is immutable for the run.
package account
