// Package latex implements the span detection and rewrite engine.
//
// The detector scans raw LaTeX for \album{...} and \song{...} markers and
// produces non-overlapping MusicEntity spans sorted by offset, skipping
// markers that already sit inside a \href or \gref wrapper. A second
// scanner finds previously applied wrappers whose smart link resolved to
// the not-found sentinel so they can be retried.
//
// The rewriter splices resolved links back into the document at the
// recorded byte offsets, leaving everything outside the spans untouched.
// Offsets are byte indices into the original document throughout, both in
// detection and splicing.
package latex
