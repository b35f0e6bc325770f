// Package filter decides which tracked paths are excluded from an export.
//
// Patterns use doublestar glob syntax: `*` matches within a single path
// segment and `**` matches across segments, including none, so `**/*.csv`
// matches both `secrets.csv` and `data/secrets.csv`. Patterns are evaluated
// in order and the first match is reported as the exclusion reason.
//
// [DefaultPatterns] are always applied before user patterns; use [Patterns]
// to build the effective list and [New] to compile it into a [Matcher].
package filter
