// Package gitctx reads tracked files and commit history from a git
// repository.
//
// [Open] discovers the repository at or above a directory using go-git, so
// no git binary is required. [Repo.TrackedFiles] enumerates the index rather
// than the working tree: untracked files never appear, and tracked files that
// are missing on disk are dropped silently. [Repo.RecentCommits] walks
// history from HEAD, most recent first.
//
// Scope arguments given on the command line are converted to repo-relative
// paths with [Repo.ResolveScopes]; a path is in scope when it equals a scope
// or lies beneath it.
package gitctx
