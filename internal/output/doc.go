// Package output renders an export document for display or machine
// consumption.
//
// Three formats are supported:
//   - text: the plain document: file listing, skipped files, recent
//     commits, then line-numbered file contents (default)
//   - markdown: the same sections with headings and fenced code blocks
//   - json: the full document as structured JSON
//
// Use [GetWriter] to obtain a [Writer] for a format string, or
// [WriteDocument] to render into a buffer and copy it to a destination only
// once rendering has succeeded. All timestamps use [FormatTime].
package output
