// Package scraper contains the resumable page-by-page extraction engine.
//
// The Scraper owns one run over the listing: it recovers the resume point
// from the checkpoint store, drives the navigator forward past pages that
// were already written in a previous run, then loops fetch, extract, append,
// checkpoint, advance until the listing is exhausted.
//
// Ordering is the correctness mechanism. No page is visited before the
// previous page's records are flushed to the output file and its index is
// checkpointed, so a crash re-does at most one page and a restart never
// duplicates rows for checkpointed pages (those pages are skipped, not
// re-extracted).
//
// During the skip phase any failure to advance is fatal: the resume target
// is unreachable and restarting silently from page 1 would duplicate rows
// already present in the output file. Once in the steady loop, a navigation
// timeout is the expected end-of-listing signal and ends the run normally.
// A transient mid-listing failure is not distinguishable from real
// exhaustion at this layer; the run still completes successfully with the
// rows collected so far.
package scraper
