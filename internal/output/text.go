package output

import (
	"io"
	"strings"

	"github.com/dshills/repodump/internal/export"
)

const fence = "```"

// TextWriter outputs the plain-text document.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, doc *export.Document) error {
	ew := &errWriter{w: w}

	ew.print("Repository Files (sorted by last modified):\n")
	ew.print(strings.Repeat("-", 40) + "\n")
	for _, f := range doc.Tracked {
		ew.printf("%s (%s)\n", f.Path, FormatTime(f.ModTime))
	}

	if len(doc.Skipped) == 0 {
		ew.print("\nNo files were skipped.")
	} else {
		ew.print("\nSkipped Files:\n")
		ew.print(strings.Repeat("-", 13) + "\n")
		for _, s := range doc.Skipped {
			ew.printf("%s: %s\n", s.Path, export.Describe(s.Reason))
		}
	}

	ew.print("\nRecent Commits:\n")
	ew.print(strings.Repeat("-", 13) + "\n")
	for _, c := range doc.Commits {
		ew.printf("%s: %s\n", FormatTime(c.When), strings.TrimSpace(c.Message))
	}

	ew.print("\nFile Contents:\n=============\n\n")
	for i, f := range doc.Files {
		if i > 0 {
			ew.print("\n\n")
		}
		ew.printf("File: %s (Last modified: %s)\n%s\n%s\n%s",
			f.Path, FormatTime(f.ModTime), fence, f.Content, fence)
	}
	ew.print("\n")

	return ew.err
}
