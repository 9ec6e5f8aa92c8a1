package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkscout/internal/model"
)

// SimpleWriter outputs plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints a placeholder line for discoveries without links.
	showEmpty bool

	// verbose adds run ids and timestamps.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty prints "(no links)" for discoveries that found nothing.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables additional detail in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteDiscoveries implements Writer.
func (w *SimpleWriter) WriteDiscoveries(discoveries []*model.Discovery) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "LINKSCOUT REPORT")

	summary := Summarize(discoveries)
	fmt.Fprintf(&sb, "Seeds:        %d\n", summary.Seeds)
	fmt.Fprintf(&sb, "Succeeded:    %d\n", summary.Succeeded)
	fmt.Fprintf(&sb, "Failed:       %d\n", summary.Failed)
	fmt.Fprintf(&sb, "Links found:  %d\n", summary.Links)
	if w.verbose && len(discoveries) > 0 {
		fmt.Fprintf(&sb, "Run ID:       %s\n", discoveries[0].RunID)
	}
	sb.WriteString("\n")

	for _, d := range discoveries {
		w.writeDiscovery(&sb, d)
	}

	w.writeRule(&sb)
	return w.output.Write([]byte(sb.String()))
}

// writeDiscovery writes one seed and its links.
func (w *SimpleWriter) writeDiscovery(sb *strings.Builder, d *model.Discovery) {
	if d.Failed() {
		fmt.Fprintf(sb, "[FAILED] %s (limit %d)\n", d.Seed, d.Limit)
		fmt.Fprintf(sb, "  Error: %s\n", d.Error)
		if w.verbose {
			fmt.Fprintf(sb, "  Started: %s\n", formatTime(d.StartedAt))
		}
		sb.WriteString("\n")
		return
	}

	links := d.Links()
	fmt.Fprintf(sb, "[OK] %s (limit %d, %d links, %s)\n", d.Seed, d.Limit, len(links), formatDuration(d.Duration))
	if w.verbose {
		fmt.Fprintf(sb, "  Started: %s\n", formatTime(d.StartedAt))
	}
	for _, link := range links {
		fmt.Fprintf(sb, "  - %s\n", link)
	}
	if len(links) == 0 && w.showEmpty {
		sb.WriteString("  (no links)\n")
	}
	sb.WriteString("\n")
}

// WriteHistory implements Writer.
func (w *SimpleWriter) WriteHistory(seed string, history []*model.Discovery) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "LINKSCOUT HISTORY")
	fmt.Fprintf(&sb, "Seed: %s\n", seed)
	fmt.Fprintf(&sb, "Runs: %d\n\n", len(history))

	if len(history) == 0 {
		sb.WriteString("No discoveries recorded for this seed.\n\n")
	}

	for _, d := range history {
		fmt.Fprintf(&sb, "#%-6d %s  %-6s  %3d links  limit %d",
			d.ID, formatTime(d.StartedAt), d.Status, len(d.Links()), d.Limit)
		if w.verbose {
			fmt.Fprintf(&sb, "  run %s", d.RunID)
		}
		sb.WriteString("\n")
		if d.Failed() {
			fmt.Fprintf(&sb, "        Error: %s\n", d.Error)
		}
	}
	sb.WriteString("\n")

	w.writeRule(&sb)
	return w.output.Write([]byte(sb.String()))
}

// WriteDiff implements Writer.
func (w *SimpleWriter) WriteDiff(diff *model.Diff) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "LINKSCOUT DIFF")
	fmt.Fprintf(&sb, "Seed:     %s\n", diff.Seed)
	fmt.Fprintf(&sb, "Previous: #%d %s (%s)\n", diff.Previous.ID, formatTime(diff.Previous.StartedAt), diff.Previous.Status)
	fmt.Fprintf(&sb, "Current:  #%d %s (%s)\n\n", diff.Current.ID, formatTime(diff.Current.StartedAt), diff.Current.Status)

	if !diff.HasChanges() {
		sb.WriteString("No changes.\n\n")
		w.writeRule(&sb)
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "Added: %d  Removed: %d  Unchanged: %d\n\n", len(diff.Added), len(diff.Removed), len(diff.Unchanged))
	for _, link := range diff.Added {
		fmt.Fprintf(&sb, "+ %s\n", link)
	}
	for _, link := range diff.Removed {
		fmt.Fprintf(&sb, "- %s\n", link)
	}
	if w.verbose {
		for _, link := range diff.Unchanged {
			fmt.Fprintf(&sb, "  %s\n", link)
		}
	}
	sb.WriteString("\n")

	w.writeRule(&sb)
	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	w.writeRule(sb)
	sb.WriteString(strings.Repeat(" ", (70-len(title))/2))
	sb.WriteString(title)
	sb.WriteString("\n")
	w.writeRule(sb)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRule(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
