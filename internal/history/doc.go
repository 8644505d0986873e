// Package history persists a ledger of reel's own downloader invocations in
// SQLite: one row per requested URL with its mode, batch membership, lifecycle
// status, and failure detail.
//
// The Store manages the database connection, schema initialization, status
// transitions, stats queries, and retention pruning. History is strictly
// reel's record of what it asked the downloader to do; it is unrelated to the
// downloader-owned archive files that drive skip-on-repeat behavior, which
// reel never reads.
//
// Schema changes bump the version in schema.go; the database is rebuilt from
// scratch rather than migrated, since rows are operational breadcrumbs, not
// precious data.
package history
