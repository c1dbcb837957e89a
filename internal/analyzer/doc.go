// Package analyzer computes keyword relevance statistics from extracted
// page text.
//
// Analysis runs in two phases. AnalyzePage is per-page and worker-owned: it
// tokenizes the body text (case-folded, length-bounded), builds n-grams up
// to the configured size while filtering stop words, and records frequency,
// density, positional flags, and the keyword-stuffing flag. FinalizeSession
// is the corpus pass: it runs once, after every worker has finished, and
// multiplies the inverse document frequency into each record. Keeping the
// corpus pass behind that barrier instead of maintaining a running total
// keeps floating-point accumulation order fixed, so scores are reproducible.
package analyzer
