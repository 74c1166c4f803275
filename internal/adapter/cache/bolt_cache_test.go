package cache

import (
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *BoltCache {
	t.Helper()
	c, err := NewBoltCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBoltCache_LookupUnknownHeader(t *testing.T) {
	c := newTestCache(t)

	out, fresh, err := c.Lookup("/src/widget.h", HashSource("x"))
	if err != nil {
		t.Fatal(err)
	}
	if out != "" || fresh {
		t.Errorf("expected empty miss, got out=%q fresh=%v", out, fresh)
	}
}

func TestBoltCache_RecordAndLookup(t *testing.T) {
	c := newTestCache(t)

	hash := HashSource("class A {};")
	if err := c.Record("/src/a.h", hash, "/out/mock_a.h"); err != nil {
		t.Fatal(err)
	}

	out, fresh, err := c.Lookup("/src/a.h", hash)
	if err != nil {
		t.Fatal(err)
	}
	if out != "/out/mock_a.h" || !fresh {
		t.Errorf("expected fresh hit, got out=%q fresh=%v", out, fresh)
	}

	// A different content hash is stale but keeps the recorded output.
	out, fresh, err = c.Lookup("/src/a.h", HashSource("class A { int x; };"))
	if err != nil {
		t.Fatal(err)
	}
	if out != "/out/mock_a.h" || fresh {
		t.Errorf("expected stale hit, got out=%q fresh=%v", out, fresh)
	}
}

func TestBoltCache_RecordOverwrites(t *testing.T) {
	c := newTestCache(t)

	if err := c.Record("/src/a.h", HashSource("v1"), "/out/mock_a.h"); err != nil {
		t.Fatal(err)
	}
	if err := c.Record("/src/a.h", HashSource("v2"), "/out/mock_a.h"); err != nil {
		t.Fatal(err)
	}

	_, fresh, err := c.Lookup("/src/a.h", HashSource("v1"))
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("expected old hash to be stale after overwrite")
	}
	_, fresh, err = c.Lookup("/src/a.h", HashSource("v2"))
	if err != nil {
		t.Fatal(err)
	}
	if !fresh {
		t.Error("expected new hash to be fresh")
	}
}

func TestHashSource_Deterministic(t *testing.T) {
	if HashSource("abc") != HashSource("abc") {
		t.Error("expected stable hash for identical content")
	}
	if HashSource("abc") == HashSource("abd") {
		t.Error("expected different hash for different content")
	}
}
