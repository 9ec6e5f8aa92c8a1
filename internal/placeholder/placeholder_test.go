package placeholder

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVariables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "no braces", input: "https://example.com/", want: nil},
		{name: "single variable", input: "https://{host}/docs", want: []string{"host"}},
		{name: "two variables", input: "{scheme}://{host}/", want: []string{"scheme", "host"}},
		{name: "nested closes inner first", input: "{a}/{b{c}}.", want: []string{"a", "c", "b{c"}},
		{name: "trailing brace not examined", input: "https://{host}", want: nil},
		{name: "unmatched close ignored", input: "}{x}.", want: []string{"x"}},
		{name: "unclosed open ignored", input: "{x{y}.", want: []string{"y"}},
		{name: "empty name", input: "{}.", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Variables(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Variables(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"host":   "docs.example.com",
		"lang":   "en",
		"scheme": "https",
	}

	t.Run("expands every occurrence", func(t *testing.T) {
		t.Parallel()

		got, err := Expand("{scheme}://{host}/{lang}/{lang}", vars)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "https://docs.example.com/en/en"; got != want {
			t.Errorf("Expand() = %q, want %q", got, want)
		}
	})

	t.Run("expands a trailing variable", func(t *testing.T) {
		t.Parallel()

		got, err := Expand("https://{host}", vars)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "https://docs.example.com"; got != want {
			t.Errorf("Expand() = %q, want %q", got, want)
		}
	})

	t.Run("returns input without variables unchanged", func(t *testing.T) {
		t.Parallel()

		got, err := Expand("https://example.com/", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "https://example.com/" {
			t.Errorf("Expand() = %q", got)
		}
	})

	t.Run("reports missing variable", func(t *testing.T) {
		t.Parallel()

		_, err := Expand("https://{host}/{section}/", vars)
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, ErrMissingVariable) {
			t.Errorf("expected ErrMissingVariable, got %v", err)
		}
		var missing *MissingVariableError
		if !errors.As(err, &missing) {
			t.Fatalf("expected *MissingVariableError, got %T", err)
		}
		if missing.Name != "section" {
			t.Errorf("Name = %q, want %q", missing.Name, "section")
		}
	})
}
