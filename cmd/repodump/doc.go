// Repodump writes the tracked files of a git repository as one document.
//
// The document lists every tracked file (newest first), the files that were
// skipped and why, recent commit history, and the line-numbered contents of
// every exported file. Binary files and default patterns such as *.lock and
// **/*.csv are skipped.
//
// Usage:
//
//	repodump                      # export the repository containing the working directory
//	repodump src docs             # export only these paths
//	repodump -c 5 -i 'vendor/**'  # five commits, extra ignore glob
//	repodump -f json -o dump.json # JSON document written to a file
//	repodump config init          # create a config file
package main
