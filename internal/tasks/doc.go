// Package tasks runs batch operations over favorite movies with real-time progress reporting.
//
// # Bulk Export
//
// [Exporter.BulkExport] fetches each movie's details and credits (rate limited with [rate.Limiter]) and hands
// the result to a pool of writer goroutines that render it with the formatter package:
//   - json, csv, txt : one {id}.{ext} file per movie
//   - markdown : a {id}/README.md directory, with poster.jpg when a poster client is supplied
//
// A failed movie is recorded and the export continues. The run ends by writing export_manifest.json,
// a [BulkExportResult] listing every movie with its files or error.
//
// # Progress Reporting
//
// Updates are sent on an optional channel with select/default so a slow reader never blocks the export.
package tasks
