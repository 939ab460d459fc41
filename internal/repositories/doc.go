// Package repositories implements SQLite persistence for the activity journal.
//
// [ActivityRepository] stores one row per collection mutation attempt, successful or not,
// and satisfies collection.Recorder so a Sync can journal its calls.
//
// Rows are ordered by a per-table sequence number. The [NextSequence] function
// atomically increments the counter held in the matching {table}_sequence table.
package repositories
