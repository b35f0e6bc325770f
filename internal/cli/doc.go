// Package cli wires together the Cobra command tree for the repodump binary.
//
// The root command exports the repository containing the working directory,
// optionally narrowed to path arguments. It reads configuration, builds the
// document, and writes it to stdout (or --out) with deterministic exit codes.
// Subcommands: config, version.
package cli
