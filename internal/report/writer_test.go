package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/linkscout/internal/model"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// createTestDiscoveries returns one successful, one empty and one failed
// discovery.
func createTestDiscoveries() []*model.Discovery {
	ok := &model.Discovery{
		ID:        1,
		RunID:     "run-1",
		Seed:      "https://example.com/",
		Limit:     5,
		URLs:      []string{"https://example.com/", "https://example.com/a", "https://example.com/b"},
		StartedAt: testStart,
		Duration:  1500 * time.Millisecond,
		Status:    model.StatusOK,
	}
	empty := &model.Discovery{
		ID:        2,
		RunID:     "run-1",
		Seed:      "https://empty.example/",
		Limit:     5,
		URLs:      []string{"https://empty.example/"},
		StartedAt: testStart,
		Status:    model.StatusOK,
	}
	failed := &model.Discovery{
		ID:        3,
		RunID:     "run-1",
		Seed:      "https://down.example/",
		Limit:     5,
		URLs:      []string{},
		StartedAt: testStart,
		Status:    model.StatusFailed,
		Error:     "discover: fetch https://down.example/: connection refused. ",
	}
	return []*model.Discovery{ok, empty, failed}
}

func createTestDiff() *model.Diff {
	prev := &model.Discovery{
		ID:        10,
		Seed:      "https://example.com/",
		URLs:      []string{"https://example.com/", "https://example.com/a", "https://example.com/old"},
		StartedAt: testStart,
		Status:    model.StatusOK,
	}
	cur := &model.Discovery{
		ID:        11,
		Seed:      "https://example.com/",
		URLs:      []string{"https://example.com/", "https://example.com/a", "https://example.com/new"},
		StartedAt: testStart.Add(time.Hour),
		Status:    model.StatusOK,
	}
	return model.Compare(prev, cur)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	got := Summarize(createTestDiscoveries())
	want := Summary{Seeds: 3, Succeeded: 2, Failed: 1, Links: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(Summary{}, Summarize(nil)); diff != "" {
		t.Errorf("Summarize(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes discoveries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDiscoveries(createTestDiscoveries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"LINKSCOUT REPORT",
			"Seeds:        3",
			"Failed:       1",
			"Links found:  2",
			"[OK] https://example.com/ (limit 5, 2 links, 1.5s)",
			"  - https://example.com/a",
			"  - https://example.com/b",
			"[FAILED] https://down.example/ (limit 5)",
			"  Error: discover: fetch https://down.example/: connection refused.",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
		if strings.Contains(output, "(no links)") {
			t.Error("empty placeholder should be hidden by default")
		}
		if strings.Contains(output, "Run ID") {
			t.Error("run id should only be shown in verbose mode")
		}
	})

	t.Run("show empty and verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true), WithVerbose(true))
		if _, err := w.WriteDiscoveries(createTestDiscoveries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "(no links)") {
			t.Error("expected empty placeholder")
		}
		if !strings.Contains(output, "Run ID:       run-1") {
			t.Error("expected run id")
		}
		if !strings.Contains(output, "Started: 2026-03-01 12:00:00 UTC") {
			t.Error("expected start time")
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		history := createTestDiscoveries()
		if _, err := NewSimpleWriter(&buf).WriteHistory("https://example.com/", history); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "LINKSCOUT HISTORY") {
			t.Error("expected history header")
		}
		if !strings.Contains(output, "Runs: 3") {
			t.Error("expected run count")
		}
		if !strings.Contains(output, "#3") || !strings.Contains(output, "failed") {
			t.Error("expected failed run to be listed")
		}
	})

	t.Run("writes empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory("https://example.com/", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No discoveries recorded") {
			t.Error("expected empty history message")
		}
	})

	t.Run("writes diff", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDiff(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Previous: #10",
			"Current:  #11",
			"Added: 1  Removed: 1  Unchanged: 1",
			"+ https://example.com/new",
			"- https://example.com/old",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("writes diff without changes", func(t *testing.T) {
		t.Parallel()

		d := createTestDiscoveries()[0]
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteDiff(model.Compare(d, d)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No changes.") {
			t.Error("expected no changes message")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes discoveries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("v1.2.3"))
		if _, err := w.WriteDiscoveries(createTestDiscoveries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got DiscoveryReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Version != "v1.2.3" {
			t.Errorf("Version = %q, want v1.2.3", got.Version)
		}
		if diff := cmp.Diff(Summary{Seeds: 3, Succeeded: 2, Failed: 1, Links: 2}, got.Summary); diff != "" {
			t.Errorf("Summary mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(createTestDiscoveries(), got.Discoveries); diff != "" {
			t.Errorf("Discoveries mismatch (-want +got):\n%s", diff)
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline")
		}
	})

	t.Run("nil discoveries encode as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteDiscoveries(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"discoveries":[]`) {
			t.Errorf("expected empty array, got %s", buf.String())
		}
		if strings.Contains(buf.String(), "version") {
			t.Error("version should be omitted when unset")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteHistory("https://example.com/", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"seed\": \"https://example.com/\"") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})

	t.Run("writes diff", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteDiff(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			HasChanges bool       `json:"has_changes"`
			Diff       model.Diff `json:"diff"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !got.HasChanges {
			t.Error("expected has_changes to be true")
		}
		if diff := cmp.Diff([]string{"https://example.com/new"}, got.Diff.Added); diff != "" {
			t.Errorf("Added mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"https://example.com/old"}, got.Diff.Removed); diff != "" {
			t.Errorf("Removed mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes discoveries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteDiscoveries(createTestDiscoveries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# linkscout Report",
			"## Summary",
			"## https://example.com/",
			"https://example.com/a",
			"No links found.",
			"connection refused",
			"mermaid",
			"1 of 3 discoveries failed.",
			"Report generated by",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("all succeeded", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteDiscoveries(createTestDiscoveries()[:1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "All discoveries succeeded.") {
			t.Error("expected success tip")
		}
		if strings.Contains(output, "mermaid") {
			t.Error("a single seed should not get a chart")
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory("https://example.com/", createTestDiscoveries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# linkscout History") {
			t.Error("expected history header")
		}
		if !strings.Contains(output, "Failed") {
			t.Error("expected failed status in table")
		}
	})

	t.Run("writes diff", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteDiff(createTestDiff()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"## Added", "https://example.com/new", "## Removed", "https://example.com/old"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})
}

// failingWriter is a Writer that always fails.
type failingWriter struct{}

var errWriteFailed = errors.New("write failed")

func (failingWriter) WriteDiscoveries([]*model.Discovery) (int, error) { return 0, errWriteFailed }

func (failingWriter) WriteHistory(string, []*model.Discovery) (int, error) { return 0, errWriteFailed }

func (failingWriter) WriteDiff(*model.Diff) (int, error) { return 0, errWriteFailed }

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		m := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

		n, err := m.WriteDiscoveries(createTestDiscoveries())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("n = %d, want %d", n, text.Len()+js.Len())
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var text bytes.Buffer
		m := NewMultiWriter(failingWriter{}, NewSimpleWriter(&text))

		if _, err := m.WriteDiff(createTestDiff()); !errors.Is(err, errWriteFailed) {
			t.Fatalf("err = %v, want %v", err, errWriteFailed)
		}
		if _, err := m.WriteHistory("https://example.com/", nil); !errors.Is(err, errWriteFailed) {
			t.Fatalf("err = %v, want %v", err, errWriteFailed)
		}
		if text.Len() != 0 {
			t.Error("writers after a failure must not be called")
		}
	})
}
