// Package export builds the repository document: it classifies every
// tracked file, renders admitted files with line numbers, and collects the
// commit history that accompanies them.
//
// Every tracked path ends up in exactly one of [Document.Files] or
// [Document.Skipped]. Per-file problems are recorded as a [SkipReason] and
// never abort the run; only repository, pattern, and history failures make
// [Run] return an error.
package export
