// Package pipeline feeds simulator log files through the line classifier into
// a summary.Builder, one file and one line at a time.
//
// Per-line problems are logged and skipped; only file access errors and
// cancellation stop a run.
package pipeline
