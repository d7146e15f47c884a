package shop

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"GardenRosas/internal/catalog"
)

func newShowcaseTS(t *testing.T, remote Remote, snaps SnapshotStore) (*httptest.Server, *Store) {
	t.Helper()

	store := NewStore(remote, snaps, zap.NewNop())
	s := &Server{Store: store, Log: zap.NewNop()}
	h := NewHandler(s, HTTPDeps{Log: zap.NewNop(), Service: "showcase"})
	return httptest.NewServer(h), store
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestShowcase_Products(t *testing.T) {
	remote := newFakeRemote(
		product(1, "Rosa Branca", catalog.CategoryFlores, 2490),
		product(2, "Vela Azul", catalog.CategoryVelas, 1890),
	)
	ts, _ := newShowcaseTS(t, remote, NewMemSnapshots())
	t.Cleanup(ts.Close)

	resp, raw := get(t, ts.URL+"/products?category=flores&q=branca")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
	if resp.Header.Get("X-Catalog-Degraded") != "" {
		t.Fatal("degraded header on healthy response")
	}

	var pr struct {
		Products []catalog.Product `json:"products"`
		Count    int               `json:"count"`
		Degraded bool              `json:"degraded"`
	}
	if err := json.Unmarshal(raw, &pr); err != nil {
		t.Fatalf("decode: %v body=%s", err, raw)
	}
	if pr.Count != 1 || pr.Products[0].Name != "Rosa Branca" || pr.Degraded {
		t.Fatalf("resp=%+v", pr)
	}
}

func TestShowcase_UnknownCategory(t *testing.T) {
	ts, _ := newShowcaseTS(t, newFakeRemote(), NewMemSnapshots())
	t.Cleanup(ts.Close)

	resp, _ := get(t, ts.URL+"/products?category=plantas")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestShowcase_DegradedServesSnapshot(t *testing.T) {
	remote := newFakeRemote()
	remote.setErr(ErrUnavailable)

	snaps := NewMemSnapshots()
	_ = snaps.Write(Snapshot{
		Products:  []catalog.Product{product(1, "Rosa", catalog.CategoryFlores, 2490)},
		Timestamp: time.Now().Add(-time.Hour),
	})

	ts, _ := newShowcaseTS(t, remote, snaps)
	t.Cleanup(ts.Close)

	resp, raw := get(t, ts.URL+"/products")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
	if resp.Header.Get("X-Catalog-Degraded") != "true" {
		t.Fatal("missing degraded header")
	}
}

func TestShowcase_UnavailableWithoutSnapshot(t *testing.T) {
	remote := newFakeRemote()
	remote.setErr(ErrUnavailable)

	ts, _ := newShowcaseTS(t, remote, NewMemSnapshots())
	t.Cleanup(ts.Close)

	resp, _ := get(t, ts.URL+"/products")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestShowcase_Categories(t *testing.T) {
	ts, _ := newShowcaseTS(t, newFakeRemote(), NewMemSnapshots())
	t.Cleanup(ts.Close)

	resp, raw := get(t, ts.URL+"/categories")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	var cats []struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 7 || cats[0].Slug != "flores" || cats[0].Name != "Flores" {
		t.Fatalf("categories=%v", cats)
	}
}

func TestShowcase_ProductByID(t *testing.T) {
	remote := newFakeRemote(product(7, "Santinho", catalog.CategorySantinhos, 300))
	ts, _ := newShowcaseTS(t, remote, NewMemSnapshots())
	t.Cleanup(ts.Close)

	resp, raw := get(t, ts.URL+"/products/7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
	var p catalog.Product
	if err := json.Unmarshal(raw, &p); err != nil || p.Name != "Santinho" {
		t.Fatalf("p=%+v err=%v", p, err)
	}

	resp, _ = get(t, ts.URL+"/products/99")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
