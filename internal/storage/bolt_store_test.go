package storage

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestBolt(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "harvested.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreFiltersHarvestedIDs(t *testing.T) {
	store := openTestBolt(t, Options{ArticleTTL: time.Hour, CleanupInterval: time.Hour})

	unseen, err := store.FilterUnseen([]string{"e70a7343", "e70a7334"})
	if err != nil {
		t.Fatalf("FilterUnseen: %v", err)
	}
	if !reflect.DeepEqual(unseen, []string{"e70a7343", "e70a7334"}) {
		t.Fatalf("expected all ids unseen, got %v", unseen)
	}

	if err := store.MarkArticles("e70a7343"); err != nil {
		t.Fatalf("MarkArticles: %v", err)
	}

	unseen, err = store.FilterUnseen([]string{"e70a7343", "e70a7334"})
	if err != nil {
		t.Fatalf("FilterUnseen: %v", err)
	}
	if !reflect.DeepEqual(unseen, []string{"e70a7334"}) {
		t.Fatalf("expected only e70a7334 unseen, got %v", unseen)
	}

	seen, err := store.SeenArticle("e70a7343")
	if err != nil || !seen {
		t.Fatalf("expected e70a7343 seen, got seen=%v err=%v", seen, err)
	}
}

func TestBoltStoreExpiresAndSweeps(t *testing.T) {
	store := openTestBolt(t, Options{ArticleTTL: time.Minute, CleanupInterval: 10 * time.Minute})
	base := time.Date(2019, time.January, 13, 0, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }
	store.lastCleanup.Store(base.Unix())

	if err := store.MarkArticles("a", "b", "c"); err != nil {
		t.Fatalf("MarkArticles: %v", err)
	}

	now = base.Add(2 * time.Minute)
	seen, err := store.SeenArticle("a")
	if err != nil {
		t.Fatalf("SeenArticle: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to be expired")
	}
	if store.count() != 3 {
		t.Fatalf("expired entries must stay until the sweep, got %d", store.count())
	}

	now = base.Add(11 * time.Minute)
	if _, err := store.FilterUnseen([]string{"a"}); err != nil {
		t.Fatalf("FilterUnseen: %v", err)
	}
	if store.count() != 0 {
		t.Fatalf("expected sweep to remove all expired entries, got %d", store.count())
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkArticles("x"); err != nil {
		t.Fatalf("noop store MarkArticles: %v", err)
	}
	unseen, err := store.FilterUnseen([]string{"x"})
	if err != nil || len(unseen) != 1 {
		t.Fatalf("noop store must report everything unseen, got %v %v", unseen, err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}
