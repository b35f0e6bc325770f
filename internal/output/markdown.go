package output

import (
	"io"
	"path"
	"strings"

	"github.com/dshills/repodump/internal/export"
)

// MarkdownWriter outputs the document with headings and fenced code blocks,
// suitable for pasting into chat interfaces that render markdown.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, doc *export.Document) error {
	ew := &errWriter{w: w}

	ew.print("## Repository Files\n\n")
	ew.print("| File | Last modified |\n")
	ew.print("|------|---------------|\n")
	for _, f := range doc.Tracked {
		ew.printf("| `%s` | %s |\n", f.Path, FormatTime(f.ModTime))
	}

	ew.print("\n## Skipped Files\n\n")
	if len(doc.Skipped) == 0 {
		ew.print("No files were skipped.\n")
	}
	for _, s := range doc.Skipped {
		ew.printf("- `%s`: %s\n", s.Path, export.Describe(s.Reason))
	}

	ew.print("\n## Recent Commits\n\n")
	for _, c := range doc.Commits {
		ew.printf("- **%s** %s\n", FormatTime(c.When), subject(c.Message))
	}

	ew.print("\n## File Contents\n")
	for _, f := range doc.Files {
		fenceStr := mdFence(f.Content)
		ew.printf("\n### `%s`\n\n", f.Path)
		ew.printf("_Last modified: %s_\n\n", FormatTime(f.ModTime))
		ew.printf("%s%s\n", fenceStr, mdLang(f.Path))
		if f.Content != "" {
			ew.print(f.Content + "\n")
		}
		ew.print(fenceStr + "\n")
	}

	return ew.err
}

// subject returns the first non-empty line of a commit message.
func subject(msg string) string {
	for _, line := range strings.Split(strings.TrimSpace(msg), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// mdFence returns a backtick fence longer than any backtick run in content.
func mdFence(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

// mdLang derives a code block language hint from the file extension.
func mdLang(p string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
}
