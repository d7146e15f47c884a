package shop

import (
	"path/filepath"
	"testing"
	"time"

	"GardenRosas/internal/catalog"
)

func TestFreshnessPolicy(t *testing.T) {
	now := time.Now()
	snap := func(age time.Duration) Snapshot {
		return Snapshot{Timestamp: now.Add(-age)}
	}

	var p FreshnessPolicy

	if p.Usable(Snapshot{}, false, now) {
		t.Fatal("missing snapshot reported usable")
	}
	if !p.Usable(snap(time.Hour), true, now) {
		t.Fatal("1h-old snapshot reported stale")
	}
	if !p.Usable(snap(24*time.Hour-time.Second), true, now) {
		t.Fatal("snapshot just inside the window reported stale")
	}
	if p.Usable(snap(24*time.Hour), true, now) {
		t.Fatal("24h-old snapshot reported usable")
	}

	short := FreshnessPolicy{MaxAge: time.Minute}
	if short.Usable(snap(2*time.Minute), true, now) {
		t.Fatal("custom MaxAge ignored")
	}
}

func TestBoltSnapshots_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.db")

	s, err := OpenBoltSnapshots(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if _, found, err := s.Read(); err != nil || found {
		t.Fatalf("empty db: found=%v err=%v", found, err)
	}

	want := Snapshot{
		Products:  []catalog.Product{product(1, "Rosa", catalog.CategoryFlores, 2490)},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.Write(want); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, found, err := s.Read()
	if err != nil || !found {
		t.Fatalf("read: found=%v err=%v", found, err)
	}
	if len(got.Products) != 1 || got.Products[0].Name != "Rosa" {
		t.Fatalf("got=%+v", got)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("timestamp=%v want=%v", got.Timestamp, want.Timestamp)
	}
}

func TestBoltSnapshots_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.db")

	s, err := OpenBoltSnapshots(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := Snapshot{
		Products:  []catalog.Product{product(1, "Vela", catalog.CategoryVelas, 1890)},
		Timestamp: time.Now().UTC(),
	}
	if err := s.Write(want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := OpenBoltSnapshots(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = s2.Close() })

	got, found, err := s2.Read()
	if err != nil || !found || len(got.Products) != 1 {
		t.Fatalf("after reopen: got=%+v found=%v err=%v", got, found, err)
	}
}
