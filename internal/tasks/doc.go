// Package tasks runs multi-playlist operations against the stats service with real-time progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] fetches several playlists through a bounded worker pool:
//   - Requests are rate limited across all workers
//   - Each playlist is written to its own file in the output directory
//   - A failed playlist is recorded in the result and does not stop the others
//   - An export_manifest.json summarizes every playlist once all workers finish
//
// # Progress Reporting
//
// Progress is sent as [ProgressUpdate] values over an optional channel.
// Updates use select with default so a slow consumer never blocks the workers.
package tasks
