package export

import (
	"time"

	"github.com/dshills/repodump/internal/gitctx"
)

// SkipReason explains why a tracked file was not rendered. The set of
// implementations is closed: InvalidText, PatternExcluded and ReadError.
type SkipReason interface {
	skipReason()
}

// InvalidText marks a file that is not valid UTF-8.
type InvalidText struct{}

// PatternExcluded marks a file matched by an ignore pattern.
type PatternExcluded struct {
	Pattern string
}

// ReadError marks a file whose metadata or content could not be read.
type ReadError struct {
	Message string
}

func (InvalidText) skipReason()     {}
func (PatternExcluded) skipReason() {}
func (ReadError) skipReason()       {}

// Skip reason kinds used in machine-readable output.
const (
	KindInvalidText     = "invalid_text"
	KindPatternExcluded = "pattern_excluded"
	KindReadError       = "read_error"
)

// Describe returns the human-readable text shown for r.
func Describe(r SkipReason) string {
	switch r := r.(type) {
	case InvalidText:
		return "Invalid UTF-8 encoding"
	case PatternExcluded:
		return r.Pattern
	case ReadError:
		return r.Message
	default:
		panic("export: unknown skip reason")
	}
}

// Kind returns the machine-readable kind of r.
func Kind(r SkipReason) string {
	switch r.(type) {
	case InvalidText:
		return KindInvalidText
	case PatternExcluded:
		return KindPatternExcluded
	case ReadError:
		return KindReadError
	default:
		panic("export: unknown skip reason")
	}
}

// SkippedFile is a tracked file that was not rendered.
type SkippedFile struct {
	Path   string
	Reason SkipReason
}

// FormattedFile is a rendered, line-numbered file.
type FormattedFile struct {
	Path    string
	Content string
	ModTime time.Time
	Lines   int
	Bytes   int
}

// Document is the complete result of an export run.
type Document struct {
	Repo    gitctx.RepoMeta
	Tracked []gitctx.TrackedFile
	Skipped []SkippedFile
	Commits []gitctx.CommitRecord
	Files   []FormattedFile
}

// Totals sums the rendered line and byte counts of all formatted files.
func (d *Document) Totals() (lines, bytes int) {
	for _, f := range d.Files {
		lines += f.Lines
		bytes += f.Bytes
	}
	return lines, bytes
}
