// Package store records harness runs in a local SQLite database.
//
// The log is append-only and written once per run:
//   - runs: one row per invocation with its counters, exit code and the
//     full JSON report
//   - failures: one row per failure line, ordered by seq
//
// # Database Configuration
//
//   - WAL mode: readers (sqlite3 shell, dashboards) never block the writer
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// Run ids come from internal/runid, so ordering by id is chronological
// in production.
package store
