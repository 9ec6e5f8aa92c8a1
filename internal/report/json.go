package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/linkscout/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	indentPrefix string
	indentString string

	// version is stamped on every document when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the linkscout version in every document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// DiscoveryReport is the JSON document for one run.
type DiscoveryReport struct {
	Version     string             `json:"version,omitempty"`
	Summary     Summary            `json:"summary"`
	Discoveries []*model.Discovery `json:"discoveries"`
}

// HistoryReport is the JSON document for the runs of a seed.
type HistoryReport struct {
	Version string             `json:"version,omitempty"`
	Seed    string             `json:"seed"`
	Runs    []*model.Discovery `json:"runs"`
}

// DiffReport is the JSON document for a history diff.
type DiffReport struct {
	Version    string      `json:"version,omitempty"`
	HasChanges bool        `json:"has_changes"` //nolint:tagliatelle // snake_case matches the rest of the report
	Diff       *model.Diff `json:"diff"`
}

// WriteDiscoveries implements Writer.
func (w *JSONWriter) WriteDiscoveries(discoveries []*model.Discovery) (int, error) {
	if discoveries == nil {
		discoveries = []*model.Discovery{}
	}
	return w.writeJSON(&DiscoveryReport{
		Version:     w.version,
		Summary:     Summarize(discoveries),
		Discoveries: discoveries,
	})
}

// WriteHistory implements Writer.
func (w *JSONWriter) WriteHistory(seed string, history []*model.Discovery) (int, error) {
	if history == nil {
		history = []*model.Discovery{}
	}
	return w.writeJSON(&HistoryReport{
		Version: w.version,
		Seed:    seed,
		Runs:    history,
	})
}

// WriteDiff implements Writer.
func (w *JSONWriter) WriteDiff(diff *model.Diff) (int, error) {
	return w.writeJSON(&DiffReport{
		Version:    w.version,
		HasChanges: diff.HasChanges(),
		Diff:       diff,
	})
}

// writeJSON marshals v and writes it followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
