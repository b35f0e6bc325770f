package export

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dshills/repodump/internal/filter"
	"github.com/dshills/repodump/internal/gitctx"
)

// DefaultCommits is the number of recent commits included when unset.
const DefaultCommits = 25

// Options configures an export run.
type Options struct {
	// Dir is where repository discovery starts. Empty means the current
	// working directory.
	Dir string
	// Scopes restricts the export to these paths, relative to Dir.
	Scopes  []string
	Commits int
	// Ignore holds patterns applied after filter.DefaultPatterns.
	Ignore []string
	Render RenderOptions
}

// Run builds the export document. It fails only when the repository cannot
// be opened, a pattern or scope is invalid, or history cannot be read.
func Run(opts Options) (*Document, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determining working directory: %w", err)
		}
		dir = wd
	}

	repo, err := gitctx.Open(dir)
	if err != nil {
		return nil, err
	}
	matcher, err := filter.New(filter.Patterns(opts.Ignore))
	if err != nil {
		return nil, err
	}
	scopes, err := repo.ResolveScopes(dir, opts.Scopes)
	if err != nil {
		return nil, err
	}
	tracked, err := repo.TrackedFiles(scopes)
	if err != nil {
		return nil, err
	}
	commits, err := repo.RecentCommits(opts.Commits)
	if err != nil {
		return nil, err
	}
	slog.Debug("repository opened",
		"root", repo.Root(),
		"tracked", len(tracked),
		"commits", len(commits),
		"patterns", matcher.Patterns(),
	)

	doc := &Document{
		Repo:    repo.Meta(),
		Tracked: tracked,
		Commits: commits,
	}
	fsys := repo.Filesystem()
	for _, tf := range tracked {
		if pattern, excluded := matcher.Classify(tf.Path); excluded {
			slog.Debug("file excluded", "path", tf.Path, "pattern", pattern)
			doc.Skipped = append(doc.Skipped, SkippedFile{Path: tf.Path, Reason: PatternExcluded{Pattern: pattern}})
			continue
		}
		formatted, reason := RenderFile(fsys, tf.Path, opts.Render)
		if reason != nil {
			slog.Debug("file skipped", "path", tf.Path, "reason", Describe(reason))
			doc.Skipped = append(doc.Skipped, SkippedFile{Path: tf.Path, Reason: reason})
			continue
		}
		doc.Files = append(doc.Files, formatted)
	}

	slog.Info("export built",
		"rendered", len(doc.Files),
		"skipped", len(doc.Skipped),
		"commits", len(doc.Commits),
	)
	return doc, nil
}
