// Package repositories implements SQLite persistence for summaries served by the stats service.
//
// [SnapshotRepository] stores each served [models.PlaylistStats] with the playlist id it was computed for, so the
// history command can show how a playlist changed over time. The summary is kept both as indexed columns and as
// the JSON payload the service returned.
//
// Sequence numbers provide stable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
