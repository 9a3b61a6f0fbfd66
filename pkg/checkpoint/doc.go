// Package checkpoint persists scraping progress as the index of the last
// listing page whose records were fully written to the output file.
//
// The checkpoint is a single decimal integer in a plain text file. It is
// written atomically (temp file, fsync, rename) so a crash leaves either the
// old value or the new one, never a truncated file. A missing file means a
// fresh run starting at page 1.
//
// The engine never deletes the checkpoint on its own; operators remove it
// (or use --force-restart) to force a full re-run.
package checkpoint
