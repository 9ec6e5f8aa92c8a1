package report

import (
	"io"
	"time"

	"github.com/nao1215/linkscout/internal/model"
)

// timeLayout is used for human readable timestamps.
const timeLayout = "2006-01-02 15:04:05 MST"

// Writer renders linkscout results.
type Writer interface {
	// WriteDiscoveries outputs the results of one run.
	WriteDiscoveries(discoveries []*model.Discovery) (int, error)

	// WriteHistory outputs the stored runs of a seed, newest first.
	WriteHistory(seed string, history []*model.Discovery) (int, error)

	// WriteDiff outputs the change between two runs of a seed.
	WriteDiff(diff *model.Diff) (int, error)
}

// MultiWriter writes to multiple Writers, for example the terminal and a
// file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteDiscoveries writes to every writer and stops on the first error.
func (m *MultiWriter) WriteDiscoveries(discoveries []*model.Discovery) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteDiscoveries(discoveries) })
}

// WriteHistory writes to every writer and stops on the first error.
func (m *MultiWriter) WriteHistory(seed string, history []*model.Discovery) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(seed, history) })
}

// WriteDiff writes to every writer and stops on the first error.
func (m *MultiWriter) WriteDiff(diff *model.Diff) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteDiff(diff) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Seeds     int `json:"seeds"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Links     int `json:"links"`
}

// Summarize counts successes, failures and discovered links.
func Summarize(discoveries []*model.Discovery) Summary {
	s := Summary{Seeds: len(discoveries)}
	for _, d := range discoveries {
		if d.Failed() {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.Links += len(d.Links())
	}
	return s
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// formatTime renders t for humans, or "-" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

// formatDuration rounds d to milliseconds.
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
