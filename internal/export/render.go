package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/repodump/internal/redact"
	"github.com/go-git/go-billy/v5"
)

// LineDelimiter separates the line number from the line text.
const LineDelimiter = " │ "

var errInvalidText = errors.New("invalid UTF-8")

// RenderOptions controls optional content transforms applied while
// rendering.
type RenderOptions struct {
	Redact      bool
	RedactPaths []string
}

// RenderFile reads path from fsys and renders it with line numbers. A nil
// SkipReason means the returned file is valid.
func RenderFile(fsys billy.Filesystem, path string, opts RenderOptions) (FormattedFile, SkipReason) {
	info, err := fsys.Stat(path)
	if err != nil {
		return FormattedFile{}, ReadError{Message: err.Error()}
	}
	f, err := fsys.Open(path)
	if err != nil {
		return FormattedFile{}, ReadError{Message: err.Error()}
	}
	defer f.Close()

	lines, err := readLines(f)
	if errors.Is(err, errInvalidText) {
		return FormattedFile{}, InvalidText{}
	}
	if err != nil {
		return FormattedFile{}, ReadError{Message: err.Error()}
	}

	if opts.Redact {
		lines = redact.Lines(path, lines, opts.RedactPaths)
	}
	content := NumberLines(lines)
	return FormattedFile{
		Path:    path,
		Content: content,
		ModTime: info.ModTime(),
		Lines:   len(lines),
		Bytes:   len(content),
	}, nil
}

// readLines splits r on '\n', dropping a '\r' before the newline. A trailing
// newline does not produce an empty final line.
func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if trimmed, ok := strings.CutSuffix(line, "\n"); ok {
				line = strings.TrimSuffix(trimmed, "\r")
			}
			if !utf8.ValidString(line) {
				return nil, errInvalidText
			}
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// NumberLines prefixes each line with its 1-based number, right-aligned to
// the width of the line count.
func NumberLines(lines []string) string {
	width := len(strconv.Itoa(len(lines)))
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d%s%s", width, i+1, LineDelimiter, line)
	}
	return b.String()
}
