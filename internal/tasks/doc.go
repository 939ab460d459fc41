// Package tasks runs the multi-request operations of a browse session with non-blocking progress reporting.
//
// # Session Load
//
// [SessionLoader.Load] issues three loads at once:
//
//  1. Catalog: fatal on failure; the error is returned so the caller can offer a retry
//  2. Watchlist: tolerated; the collection is left empty and flagged unavailable
//  3. Viewed: tolerated, as above
//
// # Collection Export
//
// [ExportCollections] writes the watchlist and viewed list in each requested
// [formatter.Format] using a bounded worker pool, then records a manifest.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select with default,
// so a slow or absent reader never blocks the operation.
package tasks
