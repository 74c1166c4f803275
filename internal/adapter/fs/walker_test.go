package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// header\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestWalk_DefaultIncludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.h")
	touch(t, root, "sub/b.hpp")
	touch(t, root, "sub/deep/c.hxx")
	touch(t, root, "notes.txt")
	touch(t, root, "main.cc")

	w := NewWalker(nil, nil)
	headers, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	got := relPaths(t, root, headers)
	want := []string{"a.h", "sub/b.hpp", "sub/deep/c.hxx"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestWalk_Excludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "keep.h")
	touch(t, root, "build/skip.h")
	touch(t, root, "vendor/lib/skip.h")

	w := NewWalker(nil, []string{"build/**", "vendor/**"})
	headers, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	got := relPaths(t, root, headers)
	if len(got) != 1 || got[0] != "keep.h" {
		t.Errorf("expected only keep.h, got %v", got)
	}
}

func TestWalk_SingleFileRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "widget.h")
	touch(t, root, "readme.md")

	w := NewWalker(nil, nil)

	headers, err := w.Walk(filepath.Join(root, "widget.h"))
	if err != nil {
		t.Fatal(err)
	}
	if len(headers) != 1 {
		t.Fatalf("expected the file itself, got %v", headers)
	}

	headers, err = w.Walk(filepath.Join(root, "readme.md"))
	if err != nil {
		t.Fatal(err)
	}
	if len(headers) != 0 {
		t.Errorf("expected non-header file rejected, got %v", headers)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	w := NewWalker(nil, nil)
	if _, err := w.Walk(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}
