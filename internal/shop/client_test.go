package shop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"GardenRosas/internal/catalog"
)

func TestClient_ListAndCreate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/products":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Rosa","category":"flores","price_cents":2490}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/products":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":2,"name":"Vela","category":"velas","price_cents":1890}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL + "/")
	if strings.HasSuffix(c.BaseURL, "/") {
		t.Fatalf("trailing slash not trimmed: %q", c.BaseURL)
	}
	c.Token = "tok"

	products, err := c.List(context.Background())
	if err != nil || len(products) != 1 || products[0].Name != "Rosa" {
		t.Fatalf("list=%v err=%v", products, err)
	}

	p, err := c.Create(context.Background(), catalog.Draft{Name: "Vela"})
	if err != nil || p.ID != 2 {
		t.Fatalf("create=%+v err=%v", p, err)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/404":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"storage error"}`))
		}
	}))
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL)

	if _, err := c.Delete(context.Background(), 404); !errors.Is(err, ErrRemoteNotFound) {
		t.Fatalf("err=%v want ErrRemoteNotFound", err)
	}

	_, err := c.Delete(context.Background(), 1)
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("err=%v want ErrBadStatus", err)
	}
	if !strings.Contains(err.Error(), "storage error") {
		t.Fatalf("err=%v should carry the envelope message", err)
	}
}

func TestClient_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	c := NewClient(ts.URL)
	if _, err := c.List(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
}
