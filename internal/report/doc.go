// Package report renders discoveries, run histories and history diffs.
//
// Three formats are available:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: structured JSON for other tools
//   - MarkdownWriter: Markdown for sharing, built with nao1215/markdown
//
// All of them implement Writer, and MultiWriter fans a report out to several
// writers at once.
package report
