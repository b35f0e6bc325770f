package output

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/dshills/repodump/internal/export"
)

// TimeLayout is used for every timestamp in rendered output.
const TimeLayout = "2006-01-02 15:04:05"

// UnknownTime is printed when a timestamp is not available.
const UnknownTime = "Unknown time"

// Writer writes a document in a specific format.
type Writer interface {
	Write(w io.Writer, doc *export.Document) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "", "text":
		return &TextWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteDocument renders doc in the given format and copies it to w. Nothing
// is written to w if rendering fails.
func WriteDocument(w io.Writer, doc *export.Document, format string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writer.Write(&buf, doc); err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// FormatTime renders t in UTC, or UnknownTime for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return UnknownTime
	}
	return t.UTC().Format(TimeLayout)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}
