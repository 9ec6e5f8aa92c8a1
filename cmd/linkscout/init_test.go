package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/linkscout/internal/config"
)

func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "linkscout.yaml")
		stdout, _, err := execute(t, "init", "-o", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Created configuration file") {
			t.Errorf("unexpected output: %q", stdout)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want 600", perm)
		}

		cf, err := config.LoadConfigFile(path)
		if err != nil {
			t.Fatalf("template does not parse: %v", err)
		}
		if cf.Vars["lang"] != "en" {
			t.Errorf("vars.lang = %q, want en", cf.Vars["lang"])
		}
		seeds, err := cf.ExpandSeeds()
		if err != nil {
			t.Fatalf("ExpandSeeds() error = %v", err)
		}
		if len(seeds) != 0 {
			t.Errorf("template must not enable seeds, got %v", seeds)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".linkscout")
		if err := os.WriteFile(path, []byte("vars: {}\n"), 0600); err != nil {
			t.Fatal(err)
		}

		_, _, err := execute(t, "init", "-o", path)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Fatalf("expected already exists error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "vars: {}\n" {
			t.Error("existing file was modified")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".linkscout")
		if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, _, err := execute(t, "init", "-o", path, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "linkscout configuration file") {
			t.Error("file was not overwritten with the template")
		}
	})
}
