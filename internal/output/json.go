package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dshills/repodump/internal/export"
	"github.com/dshills/repodump/internal/gitctx"
)

// JSONWriter outputs the full document as JSON.
type JSONWriter struct{}

type jsonDocument struct {
	Repo    gitctx.RepoMeta       `json:"repo"`
	Tracked []gitctx.TrackedFile  `json:"tracked"`
	Skipped []jsonSkipped         `json:"skipped"`
	Commits []gitctx.CommitRecord `json:"commits"`
	Files   []jsonFile            `json:"files"`
	Totals  jsonTotals            `json:"totals"`
}

type jsonSkipped struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

type jsonFile struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"modTime"`
	Lines   int       `json:"lines"`
	Bytes   int       `json:"bytes"`
	Content string    `json:"content"`
}

type jsonTotals struct {
	Lines int `json:"lines"`
	Bytes int `json:"bytes"`
}

func (j *JSONWriter) Write(w io.Writer, doc *export.Document) error {
	out := jsonDocument{
		Repo:    doc.Repo,
		Tracked: make([]gitctx.TrackedFile, 0, len(doc.Tracked)),
		Skipped: make([]jsonSkipped, 0, len(doc.Skipped)),
		Commits: make([]gitctx.CommitRecord, 0, len(doc.Commits)),
		Files:   make([]jsonFile, 0, len(doc.Files)),
	}
	out.Tracked = append(out.Tracked, doc.Tracked...)
	out.Commits = append(out.Commits, doc.Commits...)
	for _, s := range doc.Skipped {
		out.Skipped = append(out.Skipped, jsonSkipped{
			Path:   s.Path,
			Kind:   export.Kind(s.Reason),
			Detail: export.Describe(s.Reason),
		})
	}
	for _, f := range doc.Files {
		out.Files = append(out.Files, jsonFile{
			Path:    f.Path,
			ModTime: f.ModTime,
			Lines:   f.Lines,
			Bytes:   f.Bytes,
			Content: f.Content,
		})
	}
	out.Totals.Lines, out.Totals.Bytes = doc.Totals()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
