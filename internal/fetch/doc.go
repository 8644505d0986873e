// Package fetch runs downloader invocations. A Runner merges configuration
// with per-invocation options, hands the assembled request to the downloader
// client, records the outcome in the history store, and reports progress
// through a terminal bar or the debug log. Batch runs walk the playlist file
// sequentially under a file lock, video entries first, and keep going when
// individual entries fail.
package fetch
