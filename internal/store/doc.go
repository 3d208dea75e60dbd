// Package store keeps a SQLite history of check reports.
//
// The checks themselves are stateless; the store exists for the command line,
// which can record every evaluation and list past ones. Each report row holds
// the method, its kind, whether it passed and a summary of the checked
// result. Per-rule outcomes live in a child table keyed by report and
// position.
//
// # Ordering
//
// Reports carry a seq assigned at insert time, one more than the highest seq
// in the database. Listings order by seq, newest first, with id as a tie
// breaker, so output is stable regardless of wall-clock time.
//
// # Database Configuration
//
// Pragmas are passed in the connection string, so the driver applies them to
// every connection it opens:
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Outcomes are deleted with their report
//
// Schema changes after the initial tables are numbered migrations tracked in
// PRAGMA user_version.
package store
