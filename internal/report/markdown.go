package report

import (
	"io"
	"strconv"

	"github.com/nao1215/linkscout/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteDiscoveries implements Writer.
func (w *MarkdownWriter) WriteDiscoveries(discoveries []*model.Discovery) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("linkscout Report")
	md.PlainText("")

	summary := Summarize(discoveries)
	w.writeSummary(md, summary)

	for _, d := range discoveries {
		w.writeDiscovery(md, d)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeSummary writes the run totals, a status chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Seeds", strconv.Itoa(summary.Seeds)},
			{"Succeeded", strconv.Itoa(summary.Succeeded)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"Links found", strconv.Itoa(summary.Links)},
		},
	})
	md.PlainText("")

	if summary.Seeds > 1 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Discovery Outcome"),
			piechart.WithShowData(true),
		)
		if summary.Succeeded > 0 {
			chart.LabelAndIntValue("Succeeded", uint64(summary.Succeeded))
		}
		if summary.Failed > 0 {
			chart.LabelAndIntValue("Failed", uint64(summary.Failed))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case summary.Seeds == 0:
		md.Note("No seeds were discovered.")
	case summary.Failed == summary.Seeds:
		md.Cautionf("All %d discoveries failed.", summary.Failed)
	case summary.Failed > 0:
		md.Warningf("%d of %d discoveries failed.", summary.Failed, summary.Seeds)
	default:
		md.Tip("All discoveries succeeded.")
	}
	md.PlainText("")
}

// writeDiscovery writes one seed section.
func (w *MarkdownWriter) writeDiscovery(md *markdown.Markdown, d *model.Discovery) {
	md.H2(d.Seed)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Status", statusText(d)},
			{"Limit", strconv.Itoa(d.Limit)},
			{"Links", strconv.Itoa(len(d.Links()))},
			{"Started", formatTime(d.StartedAt)},
			{"Duration", formatDuration(d.Duration)},
		},
	})
	md.PlainText("")

	if d.Failed() {
		md.Caution(d.Error)
		md.PlainText("")
		return
	}

	links := d.Links()
	if len(links) == 0 {
		md.PlainText("No links found.")
		md.PlainText("")
		return
	}
	md.OrderedList(links...)
	md.PlainText("")
}

// WriteHistory implements Writer.
func (w *MarkdownWriter) WriteHistory(seed string, history []*model.Discovery) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("linkscout History")
	md.PlainText("")
	md.PlainTextf("Seed: `%s`", seed)
	md.PlainText("")

	if len(history) == 0 {
		md.Note("No discoveries recorded for this seed.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(history))
	for i, d := range history {
		errText := "-"
		if d.Failed() {
			errText = d.Error
		}
		rows[i] = []string{
			strconv.FormatInt(d.ID, 10),
			formatTime(d.StartedAt),
			statusText(d),
			strconv.Itoa(len(d.Links())),
			strconv.Itoa(d.Limit),
			errText,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Status", "Links", "Limit", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteDiff implements Writer.
func (w *MarkdownWriter) WriteDiff(diff *model.Diff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("linkscout Diff")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"", "Run", "Started", "Status"},
		Rows: [][]string{
			{"Seed", "`" + diff.Seed + "`", "", ""},
			{"Previous", strconv.FormatInt(diff.Previous.ID, 10), formatTime(diff.Previous.StartedAt), statusText(diff.Previous)},
			{"Current", strconv.FormatInt(diff.Current.ID, 10), formatTime(diff.Current.StartedAt), statusText(diff.Current)},
		},
	})
	md.PlainText("")

	if !diff.HasChanges() {
		md.Tip("No changes between the two runs.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	md.Importantf("%d added, %d removed, %d unchanged.", len(diff.Added), len(diff.Removed), len(diff.Unchanged))
	md.PlainText("")

	if len(diff.Added) > 0 {
		md.H2("Added")
		md.PlainText("")
		md.BulletList(diff.Added...)
		md.PlainText("")
	}
	if len(diff.Removed) > 0 {
		md.H2("Removed")
		md.PlainText("")
		md.BulletList(diff.Removed...)
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [linkscout](https://github.com/nao1215/linkscout)*")
}

func statusText(d *model.Discovery) string {
	if d.Failed() {
		return "❌ Failed"
	}
	return "✅ OK"
}
