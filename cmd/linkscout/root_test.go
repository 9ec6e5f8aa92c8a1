package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "linkscout" {
			t.Errorf("expected use 'linkscout', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		verbose := cmd.PersistentFlags().Lookup("verbose")
		if verbose == nil {
			t.Fatal("expected verbose flag")
		}
		if verbose.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", verbose.Shorthand)
		}
		if cmd.PersistentFlags().Lookup("log-json") == nil {
			t.Error("expected log-json flag")
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"discover": false, "history": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected subcommand %q", name)
			}
		}
	})
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("text logs on stderr", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetErr(&stderr)
		if err := cmd.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatal(err)
		}

		setupLogger(cmd).Debug("hello", "token", "secret-value")

		out := stderr.String()
		if !strings.Contains(out, "msg=hello") {
			t.Errorf("expected text log line, got %q", out)
		}
		if strings.Contains(out, "secret-value") {
			t.Errorf("token must be redacted, got %q", out)
		}
	})

	t.Run("json logs", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetErr(&stderr)
		if err := cmd.PersistentFlags().Set("log-json", "true"); err != nil {
			t.Fatal(err)
		}

		setupLogger(cmd).Warn("careful")

		if !strings.Contains(stderr.String(), `"msg":"careful"`) {
			t.Errorf("expected JSON log line, got %q", stderr.String())
		}
	})

	t.Run("quiet by default", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetErr(&stderr)

		setupLogger(cmd).Info("not shown")

		if stderr.Len() != 0 {
			t.Errorf("expected no output below warn level, got %q", stderr.String())
		}
	})
}
