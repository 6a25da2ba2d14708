package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"ab/1.json", "ab/2.json", "cd/3.json"} {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if n != 3 {
		t.Errorf("clearDir() removed %d files, want 3", n)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache root should survive: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache root should be empty, has %d entries", len(entries))
	}
}

func TestCachePathCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	var out bytes.Buffer
	c := New(&bytes.Buffer{}, &out, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path: %v", err)
	}

	want := filepath.Join(xdg, appName)
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	var out bytes.Buffer
	c := New(&bytes.Buffer{}, &out, log.InfoLevel)

	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("expected empty cache message, got %q", out.String())
	}

	entry := filepath.Join(xdg, appName, "ab", "cdef.json")
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entry, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	root = c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out.String(), "Cleared 1 cached entries") {
		t.Errorf("unexpected output %q", out.String())
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Error("entry should be removed")
	}
}
